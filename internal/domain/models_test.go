package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "Pink Floyd", "pinkfloyd"},
		{"strips punctuation", "AC/DC", "acdc"},
		{"strips whitespace", "  The  Beatles ", "thebeatles"},
		{"keeps digits", "Blink-182", "blink182"},
		{"unicode letters survive", "Björk", "björk"},
		{"empty", "", ""},
		{"only punctuation", "...!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeKey(tt.input))
		})
	}
}

func TestNormalizeKey_CaseVariantsCollide(t *testing.T) {
	// Different spellings of the same artist must map to one key.
	assert.Equal(t, NormalizeKey("Radiohead"), NormalizeKey("RADIOHEAD"))
	assert.Equal(t, NormalizeKey("Daft Punk"), NormalizeKey("daftpunk"))
}

func TestScanPhase_String(t *testing.T) {
	assert.Equal(t, "idle", ScanIdle.String())
	assert.Equal(t, "scanning", ScanRunning.String())
	assert.Equal(t, "failed", ScanFailed.String())
}

func TestScanSession_IsScanning(t *testing.T) {
	assert.False(t, ScanSession{Phase: ScanIdle}.IsScanning())
	assert.True(t, ScanSession{Phase: ScanRunning}.IsScanning())
	assert.False(t, ScanSession{Phase: ScanFailed}.IsScanning())
}

func TestFolder_IsLegacy(t *testing.T) {
	legacy := Folder{Path: "/music", Files: []FolderFile{{Path: "a.mp3", Name: "a.mp3"}}}
	assert.True(t, legacy.IsLegacy())

	live := Folder{Path: "/music", HasValidCapability: true}
	assert.False(t, live.IsLegacy())
}
