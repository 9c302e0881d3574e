package config

const (
	// DefaultProjectPath is the default project path
	DefaultProjectPath = "."
	// DefaultTestPath is the default path package discovery starts from
	DefaultTestPath = "."
	// DefaultConfigFile is the optional YAML config file in the project root
	DefaultConfigFile = ".rspecify.yaml"
	// DefaultEnvFile is the optional dotenv file in the project root
	DefaultEnvFile = ".env"
	// DefaultWorkers is the default number of go test workers
	DefaultWorkers = 1
	// DefaultTerminalWidth is used when the output is not a terminal
	DefaultTerminalWidth = 80
)

// Environment variables read by Load
const (
	EnvWorker    = "RSPECIFY_WORKER"
	EnvNoColor   = "RSPECIFY_NO_COLOR"
	EnvVerbosity = "RSPECIFY_VERBOSITY"
	EnvRspecify  = "RSPECIFY"
)

// DefaultPathsToIgnore are the directories skipped when scanning for packages
var DefaultPathsToIgnore = []string{
	"vendor",
	"node_modules",
	"testdata",
}
