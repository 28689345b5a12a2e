package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"contact-intake/models"
	"contact-intake/utils"
)

// Caller-visible messages.
const (
	MsgMalformed     = "Formato de solicitud inválido. Por favor verifique los datos enviados."
	MsgRequired      = "Por favor complete todos los campos requeridos"
	MsgTextOnly      = "Los campos solo aceptan texto"
	MsgInvalidEmail  = "Por favor ingrese un email válido"
	MsgForbiddenChar = "Los campos contienen caracteres no permitidos"
	MsgInternal      = "Error al procesar el formulario. Por favor intente más tarde."
	MsgSent          = "Mensaje enviado exitosamente. Nos pondremos en contacto pronto."
	MsgReceived      = "Mensaje recibido. Nos pondremos en contacto pronto."
	WarnUnconfigured = "Email service no configurado"
)

// Rejection reasons, used for logs and metrics only.
const (
	ReasonMalformed = "malformed"
	ReasonRequired  = "required"
	ReasonType      = "type"
	ReasonEmail     = "email"
	ReasonControl   = "control_chars"
	ReasonLength    = "length"
)

// ValidationError is a rejected submission. Message is safe to show to the
// caller; Reason is not sent back.
type ValidationError struct {
	Reason  string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func reject(reason, msg string) *ValidationError {
	return &ValidationError{Reason: reason, Message: msg}
}

// textField is one decoded JSON member. present is false for a missing key
// and for an explicit null.
type textField struct {
	value   string
	present bool
	isText  bool
}

type input struct {
	nombre, apellido, email, telefono, mensaje textField
	source                                     textField
}

func decodeField(obj map[string]json.RawMessage, key string) textField {
	raw, ok := obj[key]
	if !ok || string(raw) == "null" {
		return textField{}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return textField{present: true}
	}
	return textField{value: s, present: true, isText: true}
}

// decodeInput accepts only a JSON object; arrays, scalars, null and broken
// JSON are malformed.
func decodeInput(raw []byte) (*input, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return nil, reject(ReasonMalformed, MsgMalformed)
	}
	return &input{
		nombre:   decodeField(obj, "nombre"),
		apellido: decodeField(obj, "apellido"),
		email:    decodeField(obj, "email"),
		telefono: decodeField(obj, "telefono"),
		mensaje:  decodeField(obj, "mensaje"),
		source:   decodeField(obj, "source"),
	}, nil
}

// resolveSource degrades anything but a recognized string to the default.
func (in *input) resolveSource() models.Source {
	if !in.source.isText {
		return models.DefaultSource
	}
	return models.ResolveSource(in.source.value)
}

type lengthRule struct {
	field *textField
	max   int
	label string
}

// validate runs the gates in order and returns the normalized submission.
// Every check before normalization looks at the raw values.
func validate(in *input, source models.Source) (*models.Submission, error) {
	required := []textField{in.nombre, in.apellido, in.email, in.telefono}
	for _, f := range required {
		if !f.present || (f.isText && strings.TrimSpace(f.value) == "") {
			return nil, reject(ReasonRequired, MsgRequired)
		}
	}

	texts := []textField{in.nombre, in.apellido, in.email, in.telefono, in.mensaje}
	for _, f := range texts {
		if f.present && !f.isText {
			return nil, reject(ReasonType, MsgTextOnly)
		}
	}

	if !utils.ValidateEmail(in.email.value) {
		return nil, reject(ReasonEmail, MsgInvalidEmail)
	}

	for _, f := range texts {
		if utils.HasControlChars(f.value) {
			return nil, reject(ReasonControl, MsgForbiddenChar)
		}
	}

	rules := []lengthRule{
		{&in.nombre, models.MaxNombreLen, "El nombre"},
		{&in.apellido, models.MaxApellidoLen, "El apellido"},
		{&in.email, models.MaxEmailLen, "El email"},
		{&in.telefono, models.MaxTelefonoLen, "El teléfono"},
		{&in.mensaje, models.MaxMensajeLen, "El mensaje"},
	}
	for _, r := range rules {
		if utils.CharCount(r.field.value) > r.max {
			return nil, reject(ReasonLength, fmt.Sprintf("%s no puede exceder %d caracteres", r.label, r.max))
		}
	}

	return &models.Submission{
		Nombre:   strings.TrimSpace(in.nombre.value),
		Apellido: strings.TrimSpace(in.apellido.value),
		Email:    strings.ToLower(strings.TrimSpace(in.email.value)),
		Telefono: strings.TrimSpace(in.telefono.value),
		Mensaje:  strings.TrimSpace(in.mensaje.value),
		Source:   source,
	}, nil
}
