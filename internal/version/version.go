// Package version хранит сведения о сборке, которые задаются через
// -ldflags "-X github.com/vladislavdragonenkov/foodorder/internal/version.version=...".
package version

import "fmt"

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Build описывает собранный бинарник.
type Build struct {
	Version string
	Commit  string
	Date    string
}

// Current возвращает сведения о текущей сборке.
func Current() Build {
	return Build{Version: version, Commit: commit, Date: date}
}

// IsRelease сообщает, задана ли версия при сборке.
func (b Build) IsRelease() bool {
	return b.Version != "" && b.Version != "dev"
}

func (b Build) String() string {
	return fmt.Sprintf("foodorder %s (commit %s, built %s)", b.Version, b.Commit, b.Date)
}
