package types

type EnvType int

const (
	EnvTypeUnknown EnvType = iota
	EnvTypeSecret
	EnvTypeDatabase
	EnvTypeConfig
	EnvTypeGenerated // value looks machine-generated (uuid, nanoid, jwt)
	EnvTypeURL
	EnvTypeBoolean
	EnvTypeNumeric
)

func (t EnvType) String() string {
	switch t {
	case EnvTypeSecret:
		return "secret"
	case EnvTypeDatabase:
		return "database"
	case EnvTypeConfig:
		return "config"
	case EnvTypeGenerated:
		return "generated"
	case EnvTypeURL:
		return "url"
	case EnvTypeBoolean:
		return "boolean"
	case EnvTypeNumeric:
		return "numeric"
	default:
		return "unknown"
	}
}

// EnvResult is a single environment variable observed in a file.
type EnvResult struct {
	VarName    string
	Value      string
	Type       EnvType
	Sensitive  bool
	Source     string // e.g. "dotenv:/path/to/.env"
	Confidence int
}
