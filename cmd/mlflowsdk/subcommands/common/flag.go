package common

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/aesdk/mlflowsdk/pkg/utils"
)

// ProfileFile is a file to pin the profile name for a directory and its descendants.
//
// Its first line is the profile name.
const ProfileFile = ".mlflowprofile"

type CommonFlags struct {
	Profile      string `flag:"profile" help:"profile name to use"`
	ProfileStore string `flag:"profile-store" help:"path to profile store file"`
	Verbose      bool   `flag:"verbose" alias:"v" help:"write debug logs"`
}

type commonFlagDetection struct {
	home string
}

type CommonFlagDetectionOption func(*commonFlagDetection) *commonFlagDetection

func WithHome(home string) CommonFlagDetectionOption {
	return func(opt *commonFlagDetection) *commonFlagDetection {
		opt.home = home
		return opt
	}
}

// Flags detects default values of common flags for a command invoked in the directory "from".
//
// The profile name is read from the nearest ProfileFile in "from" or its ancestors.
// If there is no such file, the profile name is the absolute path of "from".
//
// The profile store is "~/.mlflowsdk/profile".
func Flags(from string, opt ...CommonFlagDetectionOption) (CommonFlags, error) {
	detparam := commonFlagDetection{}
	for _, o := range opt {
		detparam = *o(&detparam)
	}

	home := detparam.home
	if home == "" {
		if h, err := os.UserHomeDir(); err == nil {
			home = h
		}
	}

	if abs, err := filepath.Abs(from); err == nil {
		from = abs
	}

	profile := from
	if found, err := utils.SearchFilePathtoUpward(from, ProfileFile); err == nil {
		content, err := os.ReadFile(*found)
		if err != nil {
			return CommonFlags{}, err
		}
		first, _, _ := strings.Cut(string(content), "\n")
		if name := strings.TrimSpace(first); name != "" {
			profile = name
		}
	}

	return CommonFlags{
		Profile:      profile,
		ProfileStore: filepath.Join(home, ".mlflowsdk", "profile"),
	}, nil
}
