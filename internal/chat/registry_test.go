package chat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_Join_And_Leave_Track_The_Roster(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	alice := NewSession()
	bob := NewSession()

	// Given two connected sessions, neither joined yet
	registry.Add(alice)
	registry.Add(bob)
	req.Empty(registry.CurrentNames())
	req.Len(registry.Sessions(), 2)

	// When they join
	req.True(registry.Bind(alice, "Alice"))
	req.True(registry.Bind(bob, "Bob"))

	// Then the roster is exactly their names, sorted
	req.Equal([]string{"Alice", "Bob"}, registry.CurrentNames())

	// And leaving removes exactly that session's name
	name, found := registry.Remove(bob)
	req.True(found)
	req.Equal("Bob", name)
	req.Equal([]string{"Alice"}, registry.CurrentNames())
}

func TestRegistry_Duplicate_Names_Are_A_Multiset(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	first := NewSession()
	second := NewSession()
	registry.Add(first)
	registry.Add(second)

	registry.Bind(first, "Alice")
	registry.Bind(second, "Alice")
	req.Equal([]string{"Alice", "Alice"}, registry.CurrentNames())

	// Disconnecting one removes exactly one occurrence.
	registry.Remove(first)
	req.Equal([]string{"Alice"}, registry.CurrentNames())
}

func TestRegistry_Bind_Rejects_Empty_And_Unknown(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	known := NewSession()
	stranger := NewSession()
	registry.Add(known)

	req.False(registry.Bind(known, ""))
	req.False(registry.Bind(stranger, "Mallory"))
	req.Empty(registry.CurrentNames())
}

func TestRegistry_Rebind_Overwrites(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	s := NewSession()
	registry.Add(s)

	registry.Bind(s, "Alice")
	registry.Bind(s, "Alicia")

	name, ok := registry.Name(s)
	req.True(ok)
	req.Equal("Alicia", name)
	req.Equal([]string{"Alicia"}, registry.CurrentNames())
}

func TestRegistry_Remove_Unknown_Session(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	name, found := registry.Remove(NewSession())
	req.False(found)
	req.Empty(name)
}

func TestRegistry_Remove_Unjoined_Session_Has_No_Name(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	s := NewSession()
	registry.Add(s)

	name, found := registry.Remove(s)
	req.True(found)
	req.Empty(name)
}
