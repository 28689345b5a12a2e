package models

// Source identifies which landing page a submission came from.
type Source string

const (
	SourceShowMarketing Source = "show-marketing"
	SourceMerry         Source = "merry"
	SourceMisael        Source = "misael"
)

// DefaultSource is used whenever the caller omits source or sends an
// unrecognized value.
const DefaultSource = SourceShowMarketing

// Sources lists every recognized source in a stable order.
var Sources = []Source{SourceShowMarketing, SourceMerry, SourceMisael}

func (s Source) Valid() bool {
	switch s {
	case SourceShowMarketing, SourceMerry, SourceMisael:
		return true
	}
	return false
}

// ResolveSource never fails: anything that is not a recognized source
// degrades to DefaultSource.
func ResolveSource(raw string) Source {
	if s := Source(raw); s.Valid() {
		return s
	}
	return DefaultSource
}

// Field limits, in characters.
const (
	MaxNombreLen   = 100
	MaxApellidoLen = 100
	MaxEmailLen    = 255
	MaxTelefonoLen = 20
	MaxMensajeLen  = 2000
)

// Submission is a contact form payload that passed every validation gate.
// All fields are trimmed and Email is lowercased.
type Submission struct {
	Nombre   string `json:"nombre"`
	Apellido string `json:"apellido"`
	Email    string `json:"email"`
	Telefono string `json:"telefono"`
	Mensaje  string `json:"mensaje"`
	Source   Source `json:"source"`
}

func (s *Submission) FullName() string {
	return s.Nombre + " " + s.Apellido
}

// ContactResponse is the JSON body returned on success.
type ContactResponse struct {
	Message string `json:"message"`
	Warning string `json:"warning,omitempty"`
}

// ErrorResponse is the JSON body returned on 4xx/5xx.
type ErrorResponse struct {
	Error string `json:"error"`
}
