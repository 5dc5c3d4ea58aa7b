package printsurface

// Message types understood by the delivery-note surface.
const (
	TypeRefreshData = "refresh-data"
	TypeSetLanguage = "set-language"
	TypePrint       = "print"
	TypeReady       = "ready"
)

// Message is one host -> surface instruction.
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
	Lang    string `json:"lang,omitempty"`
}

func RefreshData(payload any) Message {
	return Message{Type: TypeRefreshData, Payload: payload}
}

func SetLanguage(lang string) Message {
	return Message{Type: TypeSetLanguage, Lang: lang}
}

func Print() Message {
	return Message{Type: TypePrint}
}

// NormalizeLanguage maps anything other than "ar" to "en".
func NormalizeLanguage(lang string) string {
	if lang == "ar" {
		return "ar"
	}
	return "en"
}
