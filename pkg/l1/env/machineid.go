package env

import (
	"os"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
	"github.com/joho/godotenv"
)

const appID = "carsim"

// MachineID returns a stable ID of this machine, hashed with the app ID
// so the raw machine ID is never published. Falls back to the hostname.
func MachineID() string {
	id, err := machineid.ProtectedID(appID)
	if err == nil {
		return id[:12]
	}
	glog.V(2).Infof("machine id unavailable: %v", err)
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}

// LoadDotEnv loads variables from files (default ".env") into the process
// environment without overriding what is already set. Missing files are
// ignored.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, fn := range files {
		if err := godotenv.Load(fn); err != nil && !os.IsNotExist(err) {
			glog.Warningf("load %s: %v", fn, err)
		}
	}
}

// Getenv returns the value of key, or def if unset or empty.
func Getenv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}
