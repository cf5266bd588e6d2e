package feed

import (
	"testing"
)

func TestShouldAutoPublish_BuiltinKeywords(t *testing.T) {
	tests := []struct {
		title    string
		expected bool
	}{
		{"【AI配信】ブルアカ最新情報", true},
		{"碧蓝档案新活动前瞻", true},
		{"blue archive anniversary stream", true},
		{"今日の晩ご飯", false},
		{"ただの雑談", false},
	}

	for _, tt := range tests {
		got := ShouldAutoPublish(tt.title, "")
		if got != tt.expected {
			t.Errorf("ShouldAutoPublish(%q) = %v, expected %v", tt.title, got, tt.expected)
		}
	}
}

func TestShouldAutoPublish_CustomKeywords(t *testing.T) {
	custom := "限定ガチャ\n\n  新衣装  \n"

	if !ShouldAutoPublish("限定ガチャを引いてみた", custom) {
		t.Errorf("Expected custom keyword to match")
	}
	if !ShouldAutoPublish("新衣装お披露目", custom) {
		t.Errorf("Expected trimmed custom keyword to match")
	}
	if ShouldAutoPublish("限定ガチャを引いてみた", "") {
		t.Errorf("Custom keyword should not match without being supplied")
	}
}

func TestShouldAutoPublish_CaseInsensitive(t *testing.T) {
	if !ShouldAutoPublish("BLUE ARCHIVE 2nd anniversary", "") {
		t.Errorf("Expected case-insensitive match")
	}
	if !ShouldAutoPublish("contains keyword here", "KEYWORD") {
		t.Errorf("Expected lowercase title to match uppercase custom keyword")
	}
	if ShouldAutoPublish("some title", "KEYWORD") {
		t.Errorf("Expected no match when keyword is absent")
	}
}

func TestExtractSourceID(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"https://www.bilibili.com/video/BV1xx411c7mD", "BV1xx411c7mD"},
		{"https://www.bilibili.com/video/BV1xx411c7mD?p=2", "BV1xx411c7mD"},
		{"https://example.com/no-id-here", ""},
	}

	for _, tt := range tests {
		got := ExtractSourceID(tt.url)
		if got != tt.expected {
			t.Errorf("ExtractSourceID(%q) = %q, expected %q", tt.url, got, tt.expected)
		}
	}
}
