// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package web

import (
	"io/fs"
	"strings"
	"testing"
)

func TestStaticContainsStylesheet(t *testing.T) {
	data, err := fs.ReadFile(Static(), "css/dashboard.css")
	if err != nil {
		t.Fatalf("read stylesheet: %v", err)
	}
	if !strings.Contains(string(data), ".flash.error") {
		t.Error("stylesheet is missing flash styles")
	}
}
