package processor

import "fmt"

// Attachment describes how one attachment type code is persisted.
type Attachment struct {
	Filename string
	Label    string
}

// attachmentTypes maps the server's attachment type codes to output file
// names. Codes not listed here are still downloaded, under a generic name.
var attachmentTypes = map[string]Attachment{
	"image": {Filename: "summary.png", Label: "summary image"},
	"fcs":   {Filename: "data.fcs", Label: "raw data"},
	"csv":   {Filename: "diagnostics.csv", Label: "diagnostics table"},
}

// attachmentFor resolves a type code to its persistence rule.
func attachmentFor(code string) Attachment {
	if att, ok := attachmentTypes[code]; ok {
		return att
	}
	return Attachment{
		Filename: fmt.Sprintf("%s.bin", code),
		Label:    code,
	}
}
