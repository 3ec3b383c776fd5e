package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/TyrEamon/CloudFlare-ImgBed/pkg/core"
)

func TestParseKey(t *testing.T) {
	tests := []struct {
		raw  string
		kind core.KeyKind
		id   string
	}{
		{"manage@sysConfig@theme", core.KindSetting, "manage@sysConfig@theme"},
		{"manage@sysConfig@", core.KindSetting, "manage@sysConfig@"},
		{"manage@index@operation_1700000000_ab", core.KindOperation, "1700000000_ab"},
		{"manage@index@operation_", core.KindOperation, ""},
		{"manage@index", core.KindFile, "manage@index"},
		{"manage@sysconfig@theme", core.KindFile, "manage@sysconfig@theme"},
		{"img/2024/cat.png", core.KindFile, "img/2024/cat.png"},
		{"", core.KindFile, ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			k := core.ParseKey(tt.raw)
			assert.Equal(t, tt.kind, k.Kind)
			assert.Equal(t, tt.id, k.ID)
			assert.Equal(t, tt.raw, k.Raw)
		})
	}
}

func TestKeyBuilders(t *testing.T) {
	assert.Equal(t, "manage@index@operation_42", core.OperationKey("42"))
	assert.Equal(t, "manage@sysConfig@theme", core.SettingKey("theme"))
	assert.Equal(t, "operation", core.KindOperation.String())
	assert.Equal(t, "setting", core.KindSetting.String())
	assert.Equal(t, "file", core.KindFile.String())
}

func TestEffectiveLimit(t *testing.T) {
	assert.Equal(t, core.DefaultListLimit, core.EffectiveLimit(0))
	assert.Equal(t, core.DefaultListLimit, core.EffectiveLimit(-5))
	assert.Equal(t, 7, core.EffectiveLimit(7))
}
