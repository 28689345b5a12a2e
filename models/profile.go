package models

import "html/template"

// ColorScheme holds the CSS values used by the notification email of one
// site. Values are trusted configuration and are typed template.CSS so the
// HTML renderer emits them verbatim inside style attributes.
type ColorScheme struct {
	HeaderGradient template.CSS
	HeaderText     template.CSS
	SourceLabel    template.CSS
	SourceValue    template.CSS
	LinkColor      template.CSS
	BorderColor    template.CSS
	MessageBg      template.CSS
	MessageBorder  template.CSS
	FooterBg       template.CSS
	FooterText     template.CSS
	FooterBorder   template.CSS
}

// Profile is the display configuration for one site.
type Profile struct {
	Name        Source
	DisplayName string
	Colors      ColorScheme
}

var profiles = map[Source]Profile{
	SourceShowMarketing: {
		Name:        SourceShowMarketing,
		DisplayName: "ShowMarketing",
		Colors: ColorScheme{
			HeaderGradient: "linear-gradient(135deg, #000000 0%, #333333 100%)",
			HeaderText:     "#ffffff",
			SourceLabel:    "#000000",
			SourceValue:    "#000000",
			LinkColor:      "#000000",
			BorderColor:    "#000000",
			MessageBg:      "#ffffff",
			MessageBorder:  "#000000",
			FooterBg:       "#ffffff",
			FooterText:     "#000000",
			FooterBorder:   "#000000",
		},
	},
	SourceMerry: {
		Name:        SourceMerry,
		DisplayName: "Doña Merry",
		Colors: ColorScheme{
			HeaderGradient: "linear-gradient(135deg, #ffd44a 0%, #ff29ab 100%)",
			HeaderText:     "#ffffff",
			SourceLabel:    "#7e1ad2",
			SourceValue:    "#7e1ad2",
			LinkColor:      "#7e1ad2",
			BorderColor:    "#67c7db",
			MessageBg:      "#ffffff",
			MessageBorder:  "#7e1ad2",
			FooterBg:       "#ffffff",
			FooterText:     "#7e1ad2",
			FooterBorder:   "#67c7db",
		},
	},
	SourceMisael: {
		Name:        SourceMisael,
		DisplayName: "El Semental",
		Colors: ColorScheme{
			HeaderGradient: "linear-gradient(135deg, #854319 0%, #f69d28 100%)",
			HeaderText:     "#ffffff",
			SourceLabel:    "#000000",
			SourceValue:    "#854319",
			LinkColor:      "#f69d28",
			BorderColor:    "#f69d28",
			MessageBg:      "#ffffff",
			MessageBorder:  "#f69d28",
			FooterBg:       "#000000",
			FooterText:     "#ffffff",
			FooterBorder:   "#854319",
		},
	},
}

// ProfileFor returns the profile of s, or the default source's profile when
// s is not recognized. Profile is returned by value so callers cannot mutate
// the table.
func ProfileFor(s Source) Profile {
	if p, ok := profiles[s]; ok {
		return p
	}
	return profiles[DefaultSource]
}
