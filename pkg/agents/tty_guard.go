package agents

import (
	"os"
	"strings"
)

// shouldSuppressTTYQueries decides whether the process must avoid
// terminal interaction (prompts, alternate screen, color queries).
// Robot flags, help/version and agent environments all mean the output
// is being parsed, not read.
func shouldSuppressTTYQueries(args []string, envRobot, envTest bool) bool {
	if envRobot || envTest {
		return true
	}
	for _, arg := range args[1:] {
		flag := arg
		if i := strings.IndexByte(flag, '='); i >= 0 {
			flag = flag[:i]
		}
		switch {
		case strings.HasPrefix(flag, "--robot-"):
			return true
		case flag == "--help" || flag == "-h" || flag == "--version":
			return true
		case flag == "--check-drift" || flag == "--save-baseline":
			return true
		case strings.HasPrefix(flag, "--export-"):
			return true
		}
	}
	return false
}

// SuppressTTYQueries applies shouldSuppressTTYQueries to the real
// process arguments and environment.
func SuppressTTYQueries() bool {
	return shouldSuppressTTYQueries(
		os.Args,
		os.Getenv("TAT_ROBOT") != "",
		os.Getenv("GO_TEST") != "" || strings.HasSuffix(os.Args[0], ".test"),
	)
}
