package testing

import (
	"os"
	"path"
	"runtime"
)

func init() {
	// tests write logs/ relative to the working directory, so move to the
	// module root before any test runs
	//
	//   import (
	//     _ "liyu1981.xyz/iot-telemetry-service/pkg/testing"
	//   )

	_, filename, _, _ := runtime.Caller(0)
	dir := path.Join(path.Dir(filename), "..", "..")
	if err := os.Chdir(dir); err != nil {
		panic(err)
	}
}
