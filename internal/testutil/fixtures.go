package testutil

import (
	"embed"
)

//go:embed fixtures/*
var fixturesFS embed.FS

// LoadFixture loads a fixture file by name.
func LoadFixture(name string) ([]byte, error) {
	return fixturesFS.ReadFile("fixtures/" + name)
}

// MustFixture loads a fixture file and panics if it is missing.
func MustFixture(name string) []byte {
	data, err := LoadFixture(name)
	if err != nil {
		panic(err)
	}
	return data
}

// Metadata returns workspace-scope cargo metadata output for /ws.
func Metadata() []byte {
	return MustFixture("metadata.json")
}

// RootLock returns the root lockfile. It pins dep 0.9.0.
func RootLock() []byte {
	return MustFixture("root.lock")
}

// StaleMemberLock returns a's lockfile before syncing: dep 0.9.0 with a
// stale checksum.
func StaleMemberLock() []byte {
	return MustFixture("a_stale.lock")
}

// SyncedMemberLock returns a's lockfile as cargo prunes it from RootLock.
func SyncedMemberLock() []byte {
	return MustFixture("a_synced.lock")
}

// IndependentMemberLock returns b's lockfile. b does not depend on dep, so
// it is the same before and after syncing.
func IndependentMemberLock() []byte {
	return MustFixture("b.lock")
}
