package board

const (
	DefaultTarget         = "esp32s3"
	DefaultMinToolVersion = ">= 5.3"
)

// Default returns the desktop-sparkbot profile.
func Default() *Profile {
	const (
		name   = "desktop-sparkbot"
		symbol = "BOARD_TYPE_DESKTOP_SPARKBOT"
		desc   = "Desktop SparkBot 桌面机器人"
		dir    = "main/boards/" + name
	)

	return &Profile{
		Board:       name,
		Symbol:      symbol,
		Description: desc,
		Kconfig: Artifact{
			Path: "main/Kconfig.projbuild",
			Tokens: []Token{
				{Text: symbol, Label: "board identifier"},
				{Text: desc, Label: "board description"},
				{Text: "select LV_USE_GIF", Label: "LVGL GIF directive"},
				{Text: "select LV_GIF_CACHE_DECODE_DATA", Label: "LVGL GIF cache directive"},
			},
		},
		CMake: Artifact{
			Path: "main/CMakeLists.txt",
			Tokens: []Token{
				{Text: "CONFIG_" + symbol, Label: "board branch"},
				{Text: `set(BOARD_TYPE "` + name + `")`, Label: "board directory name"},
			},
		},
		Dir: dir,
		Files: []string{
			"config.h",
			"config.json",
			"desktop_sparkbot_board.cc",
			"motor_controller.h",
			"motor_controller.cc",
			"fullscreen_emoji_display.h",
			"fullscreen_emoji_display.cc",
			"emotion_action_controller.h",
			"emotion_action_controller.cc",
			"README.md",
		},
		Source: Artifact{
			Path: dir + "/desktop_sparkbot_board.cc",
			Tokens: []Token{
				{Text: "#include <font_emoji.h>"},
				{Text: `#include "font_awesome_symbols.h"`},
				{Text: `#include "fullscreen_emoji_display.h"`},
				{Text: `#include "motor_controller.h"`},
				{Text: `#include "emotion_action_controller.h"`},
			},
		},
		Target: DefaultTarget,
		SdkconfigOverrides: []string{
			"CONFIG_SPIRAM=y",
			"CONFIG_SPIRAM_MODE_OCT=y",
			"CONFIG_SPIRAM_SPEED_80M=y",
			"CONFIG_LV_USE_GIF=y",
			"CONFIG_LV_GIF_CACHE_DECODE_DATA=y",
		},
		MinToolVersion: DefaultMinToolVersion,
		NextSteps: []string{
			"idf.py set-target " + DefaultTarget,
			"idf.py menuconfig   # select '" + desc + "'",
			"idf.py build",
			"idf.py flash monitor",
		},
		SmokeNextSteps: []string{
			"idf.py menuconfig   # select '" + desc + "'",
			"idf.py build",
			"idf.py flash monitor",
		},
	}
}
