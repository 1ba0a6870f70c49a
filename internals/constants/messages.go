package constants

// User-facing messages shared across features.
const (
	MsgServerError      = "Erreur serveur"
	MsgInvalidBody      = "Corps de requête invalide"
	MsgUnauthorized     = "Non authentifié"
	MsgInvalidToken     = "Jeton invalide ou expiré"
	MsgForbidden        = "Accès refusé"
	MsgSchoolRequired   = "x-school-id requis"
	MsgSchoolInvalid    = "x-school-id invalide"
	MsgSchoolNotFound   = "École introuvable"
	MsgSchoolDenied     = "Accès refusé à cette école"
	MsgRoleDenied       = "Rôle insuffisant"
	MsgYearNotFound     = "Année scolaire active introuvable"
	MsgInvalidID        = "Identifiant invalide"
	MsgTooManyRequests  = "Trop de requêtes, réessayez plus tard"
	MsgInvalidQueryDate = "Date invalide (format AAAA-MM-JJ)"
)
