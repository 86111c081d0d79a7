package trainer

import (
	"os"
	"testing"

	"github.com/pulsefeed/trending/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init("error", ""); err != nil {
		os.Exit(1)
	}
	os.Exit(m.Run())
}
