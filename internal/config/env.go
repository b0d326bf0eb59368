package config

import (
	"os"
	"strconv"
)

// EnvGeometry reads LINES and COLUMNS. A dimension is usable only when the
// variable holds a whole number strictly between 0 and 666; anything else
// reports 0 so live terminal geometry wins. Usable values pin that dimension
// for the life of the process.
func EnvGeometry() (rows, cols int) {
	return envDim("LINES"), envDim("COLUMNS")
}

func envDim(name string) int {
	v, err := strconv.Atoi(os.Getenv(name))
	if err != nil || v <= 0 || v >= 666 {
		return 0
	}
	return v
}
