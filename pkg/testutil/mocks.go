package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ContainsDetail checks if any detail string contains the given substring.
func ContainsDetail(details []string, substr string) bool {
	for _, d := range details {
		if strings.Contains(d, substr) {
			return true
		}
	}
	return false
}

// WriteTree creates files below root. Keys are slash-separated relative paths.
func WriteTree(t testing.TB, root string, files map[string]string) {
	t.Helper()
	for name, body := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

// SparkbotTree returns the files of a correctly integrated desktop-sparkbot project.
func SparkbotTree() map[string]string {
	const dir = "main/boards/desktop-sparkbot/"
	return map[string]string{
		"main/Kconfig.projbuild": `choice BOARD_TYPE
    prompt "Board Type"
    config BOARD_TYPE_DESKTOP_SPARKBOT
        bool "Desktop SparkBot 桌面机器人"
        depends on IDF_TARGET_ESP32S3
        select LV_USE_GIF
        select LV_GIF_CACHE_DECODE_DATA
endchoice
`,
		"main/CMakeLists.txt": `elseif(CONFIG_BOARD_TYPE_DESKTOP_SPARKBOT)
    set(BOARD_TYPE "desktop-sparkbot")
`,
		dir + "config.h":    "#define DISPLAY_WIDTH 240\n",
		dir + "config.json": `{"target": "esp32s3", "builds": [{"name": "desktop-sparkbot", "sdkconfig_append": ["CONFIG_LV_USE_GIF=y"]}]}`,
		dir + "desktop_sparkbot_board.cc": `#include <font_emoji.h>
#include "font_awesome_symbols.h"
#include "fullscreen_emoji_display.h"
#include "motor_controller.h"
#include "emotion_action_controller.h"
`,
		dir + "motor_controller.h":           "",
		dir + "motor_controller.cc":          "",
		dir + "fullscreen_emoji_display.h":   "",
		dir + "fullscreen_emoji_display.cc":  "",
		dir + "emotion_action_controller.h":  "",
		dir + "emotion_action_controller.cc": "",
		dir + "README.md":                    "# Desktop SparkBot\n",
	}
}
