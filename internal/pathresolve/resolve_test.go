package pathresolve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand_Tilde(t *testing.T) {
	t.Parallel()
	r := New(nil)
	home := r.Home()
	require.NotEmpty(t, home)

	got := r.Expand("~/.zshrc", "")
	assert.Equal(t, filepath.Join(home, ".zshrc"), got)
}

func TestExpand_Absolute(t *testing.T) {
	t.Parallel()
	r := New(nil)
	got := r.Expand(filepath.FromSlash("/absolute/path"), "")
	assert.Equal(t, filepath.FromSlash("/absolute/path"), got)
}

func TestExpand_BaseDirRelative(t *testing.T) {
	t.Parallel()
	r := New(nil)
	got := r.Expand("./configs/app.json", "/profile/root")
	assert.Equal(t, filepath.FromSlash("/profile/root/configs/app.json"), got)
}

func TestExpand_HostEnvVar(t *testing.T) {
	t.Setenv("ENDSTATE_TEST_VAR", "injected")
	r := New(nil)
	got := r.Expand("$ENDSTATE_TEST_VAR/sub", "")
	assert.Equal(t, filepath.FromSlash("injected/sub"), got)
}

func TestExpand_LogicalTokenFallsBackToHome(t *testing.T) {
	os.Unsetenv("XDG_CONFIG_HOME")
	r := New(nil)
	got := r.Expand("${config}/app", "")
	assert.Contains(t, got, "app")
}

func TestToBackupPath_NoLeadingSeparatorOrColon(t *testing.T) {
	t.Parallel()

	cases := []string{
		`C:\Users\me\.gitconfig`,
		`/home/me/.gitconfig`,
		`//home/me/.gitconfig`,
	}
	for _, c := range cases {
		got := ToBackupPath(c)
		assert.NotContains(t, got, ":")
		assert.False(t, filepath.IsAbs(got), "expected relative path, got %q", got)
	}
}

func TestToBackupPath_StripsWindowsDriveLetter(t *testing.T) {
	t.Parallel()
	got := ToBackupPath(`C:\Users\me\.gitconfig`)
	assert.Equal(t, filepath.FromSlash("Users/me/.gitconfig"), got)
}
