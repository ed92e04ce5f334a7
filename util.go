package binwrapper

import (
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// envValue returns the value of key in env. The last occurrence wins,
// matching how exec.Cmd treats duplicate keys in Env.
func envValue(env []string, key string) string {
	prefix := key + "="
	value := ""
	for _, kv := range env {
		if strings.HasPrefix(kv, prefix) {
			value = strings.TrimPrefix(kv, prefix)
		}
	}
	return value
}

// lookPath is exec.LookPath over an explicit directory list so the
// search honors the descriptor's environment instead of the ambient
// process env.
func lookPath(name string, dirs []string) (string, error) {
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, name)
		info, err := os.Stat(candidate)
		if err != nil || info.IsDir() {
			continue
		}
		if info.Mode().Perm()&0o111 == 0 {
			continue
		}
		return candidate, nil
	}
	return "", fmt.Errorf("%q not found on PATH", name)
}

// samePath reports whether two paths refer to the same file once
// symlinks are resolved.
func samePath(a, b string) bool {
	resolvedA, err := filepath.EvalSymlinks(a)
	if err != nil {
		resolvedA = filepath.Clean(a)
	}
	resolvedB, err := filepath.EvalSymlinks(b)
	if err != nil {
		resolvedB = filepath.Clean(b)
	}
	return resolvedA == resolvedB
}

// fileExists asserts that a file exists. Errors other than not-exist are
// returned so filesystem failures aren't mistaken for absence.
func fileExists(path string) (bool, error) {
	_, err := os.Stat(filepath.FromSlash(path))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func logCloseErr(closer io.Closer) {
	err := closer.Close()
	if err != nil {
		log.Println(err)
	}
}

// writeFile writes reader to target with the given permissions, creating
// parent directories as needed.
func writeFile(target string, reader io.Reader, perm fs.FileMode) error {
	err := os.MkdirAll(filepath.Dir(target), 0o755)
	if err != nil {
		return err
	}
	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	_, err = io.Copy(out, reader)
	closeErr := out.Close()
	if err == nil {
		err = closeErr
	}
	return err
}
