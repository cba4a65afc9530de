package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
)

// Client identifiers for the supported CLI coding assistants.
const (
	ClientClaude = "claude"
	ClientCodex  = "codex"
	ClientGemini = "gemini"
)

// clientLiveFiles maps client names to their live MCP configuration files,
// relative to the user's home directory. These are the files each client's
// own runtime reads.
var clientLiveFiles = map[string]string{
	ClientClaude: ".claude.json",
	ClientCodex:  filepath.Join(".codex", "config.toml"),
	ClientGemini: filepath.Join(".gemini", "settings.json"),
}

// Sentinel errors for path resolution.
var (
	// ErrHomeDirNotFound indicates the user's home directory could not be determined.
	ErrHomeDirNotFound = errors.New("home directory not found")

	// ErrUnknownClient indicates the client name is not one of the supported clients.
	ErrUnknownClient = errors.New("unknown client")
)

// DefaultDirPerm is the default permission for newly created directories (private).
const DefaultDirPerm = 0o700

// EnsureDir creates the directory and any necessary parents with specified
// permissions. If perm is 0, DefaultDirPerm (0700) is used. Idempotent.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// Home returns the user's home directory, or an empty string when it cannot
// be determined. Use ResolveHome for proper error handling.
func Home() string {
	h, _ := ResolveHome()
	return h
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// ConfigHome returns the XDG config home directory.
func ConfigHome() string {
	return xdg.ConfigHome
}

// AppDataDir returns the directory holding clihub's own state: the SQLite
// store, its backups, and the legacy config.json. Defaults to ~/.clihub.
func AppDataDir() string {
	return filepath.Join(Home(), ".clihub")
}

// DatabasePath returns the default path of the durable store.
func DatabasePath() string {
	return filepath.Join(AppDataDir(), "clihub.db")
}

// BackupsDir returns the directory holding automatic database backups.
func BackupsDir() string {
	return filepath.Join(AppDataDir(), "backups")
}

// LegacyConfigPath returns the path of the legacy per-client JSON config,
// read once during migration into the durable store.
func LegacyConfigPath() string {
	return filepath.Join(AppDataDir(), "config.json")
}

// ClientLiveFile returns the live MCP configuration file for a client.
// Returns ErrUnknownClient for unrecognized names.
func ClientLiveFile(client string) (string, error) {
	rel, ok := clientLiveFiles[client]
	if !ok {
		return "", errors.Wrapf(ErrUnknownClient, "%q", client)
	}
	home, err := ResolveHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, rel), nil
}

// ValidClient returns true if the client name is recognized.
func ValidClient(client string) bool {
	_, ok := clientLiveFiles[client]
	return ok
}

// Clients returns the supported client identifiers in sync order.
func Clients() []string {
	return []string{ClientClaude, ClientCodex, ClientGemini}
}
