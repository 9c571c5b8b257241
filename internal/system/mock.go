package system

import (
	"context"
	"io/fs"
	"path/filepath"
	"sync"
	"time"
)

// MockFS implements FileSystem for testing.
type MockFS struct {
	mu    sync.RWMutex
	files map[string]*mockFile

	// Error injection
	ReadFileErr  error
	WriteFileErr error
	StatErr      error
	CopyFileErr  error

	// RenameErrs fails Rename calls whose source path is a key.
	RenameErrs map[string]error

	// Renames records successful renames as [old, new] pairs.
	Renames [][2]string
}

type mockFile struct {
	data []byte
	mode fs.FileMode
}

// NewMockFS creates a new MockFS with an empty filesystem.
func NewMockFS() *MockFS {
	return &MockFS{
		files:      make(map[string]*mockFile),
		RenameErrs: make(map[string]error),
	}
}

// AddFile adds a file to the mock filesystem.
func (m *MockFS) AddFile(path string, data []byte, mode fs.FileMode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = &mockFile{data: data, mode: mode}
}

// RemoveFile deletes a file from the mock filesystem.
func (m *MockFS) RemoveFile(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, path)
}

// GetFile returns the contents of a file in the mock filesystem.
func (m *MockFS) GetFile(path string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.files[path]
	if !ok {
		return nil, false
	}
	return f.data, true
}

func (m *MockFS) ReadFile(path string) ([]byte, error) {
	if m.ReadFileErr != nil {
		return nil, m.ReadFileErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return f.data, nil
}

func (m *MockFS) WriteFile(path string, data []byte, perm fs.FileMode) error {
	if m.WriteFileErr != nil {
		return m.WriteFileErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = &mockFile{data: data, mode: perm}
	return nil
}

func (m *MockFS) Stat(path string) (fs.FileInfo, error) {
	if m.StatErr != nil {
		return nil, m.StatErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	if f, ok := m.files[path]; ok {
		return &mockFileInfo{name: filepath.Base(path), size: int64(len(f.data)), mode: f.mode}, nil
	}
	return nil, fs.ErrNotExist
}

func (m *MockFS) Exists(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.files[path]
	return ok
}

func (m *MockFS) Rename(oldpath, newpath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.RenameErrs[oldpath]; ok && err != nil {
		return &fs.PathError{Op: "rename", Path: oldpath, Err: err}
	}
	f, ok := m.files[oldpath]
	if !ok {
		return &fs.PathError{Op: "rename", Path: oldpath, Err: fs.ErrNotExist}
	}
	delete(m.files, oldpath)
	m.files[newpath] = f
	m.Renames = append(m.Renames, [2]string{oldpath, newpath})
	return nil
}

func (m *MockFS) CopyFile(src, dst string) error {
	if m.CopyFileErr != nil {
		return m.CopyFileErr
	}
	data, err := m.ReadFile(src)
	if err != nil {
		return err
	}
	info, err := m.Stat(src)
	if err != nil {
		return err
	}
	copied := make([]byte, len(data))
	copy(copied, data)
	return m.WriteFile(dst, copied, info.Mode())
}

// mockFileInfo implements fs.FileInfo for testing.
type mockFileInfo struct {
	name string
	size int64
	mode fs.FileMode
}

func (m *mockFileInfo) Name() string       { return m.name }
func (m *mockFileInfo) Size() int64        { return m.size }
func (m *mockFileInfo) Mode() fs.FileMode  { return m.mode }
func (m *mockFileInfo) ModTime() time.Time { return time.Now() }
func (m *mockFileInfo) IsDir() bool        { return false }
func (m *mockFileInfo) Sys() interface{}   { return nil }

// MockExecutor implements CommandExecutor for testing.
type MockExecutor struct {
	mu sync.Mutex

	// Commands records all executed commands for verification.
	Commands []MockCommand

	// Responses maps command patterns to responses.
	// Key format: "command arg1"
	Responses map[string]MockResponse

	// DefaultResponse is used when no matching response is found.
	DefaultResponse MockResponse

	// Handler, when set, is consulted before Responses. It is called without
	// the executor lock held so it may touch a MockFS to simulate side effects.
	Handler func(cmd MockCommand) (MockResponse, bool)
}

// MockCommand records an executed command.
type MockCommand struct {
	Dir  string
	Name string
	Args []string
}

// MockResponse defines the response for a command.
type MockResponse struct {
	Output []byte
	Err    error
}

// NewMockExecutor creates a new MockExecutor.
func NewMockExecutor() *MockExecutor {
	return &MockExecutor{
		Commands:  make([]MockCommand, 0),
		Responses: make(map[string]MockResponse),
	}
}

// AddResponse adds a response for a specific command pattern.
func (m *MockExecutor) AddResponse(pattern string, output []byte, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses[pattern] = MockResponse{Output: output, Err: err}
}

func (m *MockExecutor) Run(ctx context.Context, dir string, name string, args ...string) ([]byte, error) {
	cmd := MockCommand{Dir: dir, Name: name, Args: args}

	m.mu.Lock()
	m.Commands = append(m.Commands, cmd)
	handler := m.Handler
	m.mu.Unlock()

	if handler != nil {
		if resp, ok := handler(cmd); ok {
			return resp.Output, resp.Err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Look for matching response
	key := name
	if len(args) > 0 {
		key = name + " " + args[0]
	}

	if resp, ok := m.Responses[key]; ok {
		return resp.Output, resp.Err
	}
	if resp, ok := m.Responses[name]; ok {
		return resp.Output, resp.Err
	}

	return m.DefaultResponse.Output, m.DefaultResponse.Err
}

// CommandsNamed returns the recorded commands with the given program name.
func (m *MockExecutor) CommandsNamed(name string) []MockCommand {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []MockCommand
	for _, c := range m.Commands {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// LastCommand returns the most recently executed command.
func (m *MockExecutor) LastCommand() (MockCommand, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Commands) == 0 {
		return MockCommand{}, false
	}
	return m.Commands[len(m.Commands)-1], true
}

// Reset clears all recorded commands.
func (m *MockExecutor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Commands = make([]MockCommand, 0)
}
