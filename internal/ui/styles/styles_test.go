// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"
	"time"
)

func TestRenderHelpersIncludeIndicators(t *testing.T) {
	testCases := []struct {
		name      string
		render    func(string) string
		indicator string
	}{
		{"success", RenderSuccess, StatusIndicators.Success},
		{"error", RenderError, StatusIndicators.Error},
		{"warning", RenderWarning, StatusIndicators.Warning},
		{"info", RenderInfo, StatusIndicators.Info},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := tc.render("Signature is valid")
			if !strings.Contains(out, tc.indicator) {
				t.Errorf("output %q missing indicator %q", out, tc.indicator)
			}
			if !strings.Contains(out, "Signature is valid") {
				t.Errorf("output %q missing message", out)
			}
		})
	}

	if !strings.Contains(RenderStatus(false, "x"), StatusIndicators.Error) {
		t.Error("RenderStatus(false) should render an error")
	}
}

func TestNewThemeForcedMode(t *testing.T) {
	if th := NewTheme("dark"); !th.IsDark {
		t.Error("dark theme should report IsDark")
	}
	if th := NewTheme("light"); th.IsDark {
		t.Error("light theme should not report IsDark")
	}
}

func TestLayoutMode(t *testing.T) {
	th := NewTheme("dark")
	testCases := []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutCompact},
		{80, LayoutNormal},
		{160, LayoutWide},
	}
	for _, tc := range testCases {
		th.SetSize(tc.width, 40)
		if got := th.GetLayoutMode(); got != tc.want {
			t.Errorf("width %d: layout = %d, want %d", tc.width, got, tc.want)
		}
	}

	th.SetSize(10, 10)
	if th.ContentWidth() != 20 {
		t.Errorf("ContentWidth = %d, want floor of 20", th.ContentWidth())
	}
}

func TestSpinnerDuration(t *testing.T) {
	if LineSpinner.Duration() != 100*time.Millisecond {
		t.Errorf("LineSpinner.Duration = %v", LineSpinner.Duration())
	}
	if (SpinnerConfig{}).Duration() != time.Second {
		t.Error("zero FPS should fall back to one second")
	}
}
