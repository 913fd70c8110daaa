package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestRead(t *testing.T) {
	path := writeFile(t, `
# provider endpoints
INFURA_URL=https://mainnet.infura.io/v3/abc
export ALCHEMY_URL = "https://eth-mainnet.g.alchemy.com/v2/xyz"
QUOTED='single'
EMPTY=
WITH_EQUALS=a=b
`)
	vars, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"INFURA_URL":  "https://mainnet.infura.io/v3/abc",
		"ALCHEMY_URL": "https://eth-mainnet.g.alchemy.com/v2/xyz",
		"QUOTED":      "single",
		"EMPTY":       "",
		"WITH_EQUALS": "a=b",
	}, vars)
}

func TestReadErrors(t *testing.T) {
	_, err := Read(writeFile(t, "OK=1\nnot a pair\n"))
	assert.ErrorContains(t, err, ":2: expected KEY=VALUE")

	_, err = Read(writeFile(t, "=value\n"))
	assert.ErrorContains(t, err, "empty key")
}

func TestLoad(t *testing.T) {
	t.Setenv("ETHRPC_ENV_TEST", "before")
	require.NoError(t, Load(writeFile(t, "ETHRPC_ENV_TEST=after\n")))
	assert.Equal(t, "after", os.Getenv("ETHRPC_ENV_TEST"))

	assert.NoError(t, Load(filepath.Join(t.TempDir(), "absent.env")), "a missing file is fine")
}

func TestUnquote(t *testing.T) {
	assert.Equal(t, "x", unquote(`"x"`))
	assert.Equal(t, "x", unquote(`'x'`))
	assert.Equal(t, `"x'`, unquote(`"x'`))
	assert.Equal(t, `"`, unquote(`"`))
}
