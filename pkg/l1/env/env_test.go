package env

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDotEnv(t *testing.T) {
	dir, err := ioutil.TempDir("", "carsim-env")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	fn := filepath.Join(dir, ".env")
	require.NoError(t, ioutil.WriteFile(fn, []byte("CARSIM_TEST_URL=mqtt://broker:1883/test/\nCARSIM_TEST_KEEP=file\n"), 0644))

	os.Setenv("CARSIM_TEST_KEEP", "process")
	defer os.Unsetenv("CARSIM_TEST_KEEP")
	defer os.Unsetenv("CARSIM_TEST_URL")

	LoadDotEnv(fn, filepath.Join(dir, "missing.env"))
	require.Equal(t, "mqtt://broker:1883/test/", Getenv("CARSIM_TEST_URL", ""))
	require.Equal(t, "process", Getenv("CARSIM_TEST_KEEP", ""))
	require.Equal(t, "def", Getenv("CARSIM_TEST_UNSET", "def"))
}

func TestMachineID(t *testing.T) {
	id := MachineID()
	require.NotEmpty(t, id)
	require.Equal(t, id, MachineID())
}
