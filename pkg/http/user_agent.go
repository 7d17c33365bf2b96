package http

import (
	"fmt"

	"github.com/caddybuilds/buildcheck/pkg/global"
)

func UserAgent() string {
	return fmt.Sprintf("buildcheck/%s", global.Version)
}
