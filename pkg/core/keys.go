package core

import "strings"

// Reserved key prefixes shared with the calling application.
// They must not change.
const (
	SettingsPrefix  = "manage@sysConfig@"
	OperationPrefix = "manage@index@operation_"
)

// KeyKind identifies the namespace a generic key belongs to.
type KeyKind int

const (
	KindFile KeyKind = iota
	KindSetting
	KindOperation
)

func (k KeyKind) String() string {
	switch k {
	case KindSetting:
		return "setting"
	case KindOperation:
		return "operation"
	default:
		return "file"
	}
}

// Key is a classified generic key.
// ID is the identifier inside the namespace: the operation id for operations,
// the unchanged key for files and settings.
type Key struct {
	Kind KeyKind
	Raw  string
	ID   string
}

// ParseKey classifies a generic key by its reserved prefix.
func ParseKey(raw string) Key {
	switch {
	case strings.HasPrefix(raw, SettingsPrefix):
		return Key{Kind: KindSetting, Raw: raw, ID: raw}
	case strings.HasPrefix(raw, OperationPrefix):
		return Key{Kind: KindOperation, Raw: raw, ID: strings.TrimPrefix(raw, OperationPrefix)}
	default:
		return Key{Kind: KindFile, Raw: raw, ID: raw}
	}
}

// OperationKey builds the generic key of an index operation.
func OperationKey(id string) string {
	return OperationPrefix + id
}

// SettingKey builds the generic key of a setting from its short name.
func SettingKey(name string) string {
	return SettingsPrefix + name
}
