package app

import (
	"github.com/RakanBA/AYAN/internal/i18n"
	"github.com/RakanBA/AYAN/internal/model"
	"github.com/RakanBA/AYAN/internal/recognition"
)

const KindUnexpected = "unexpected"

// Failure is an identification failure as shown in the error modal.
type Failure struct {
	Kind        string `json:"kind"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// FailureFor localizes err. Errors outside the identification taxonomy get
// the generic message.
func FailureFor(err error, lang model.Language) Failure {
	t := i18n.Translator(lang)
	kind := recognition.KindOf(err)
	switch kind {
	case recognition.KindNotABuilding:
		return Failure{Kind: string(kind), Title: t("scan_failed"), Description: t("error_not_building")}
	case recognition.KindLandmarkNotFound:
		return Failure{Kind: string(kind), Title: t("scan_failed"), Description: t("error_not_found")}
	case recognition.KindService:
		return Failure{Kind: string(kind), Title: t("error_connection"), Description: t("error_connection_desc")}
	case recognition.KindInsecureTransport:
		return Failure{Kind: string(kind), Title: t("error_security"), Description: t("error_security_desc")}
	default:
		return Failure{Kind: KindUnexpected, Title: t("scan_failed"), Description: t("error_unexpected")}
	}
}
