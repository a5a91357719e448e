package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slicedroid/internal/model"
)

func TestCategorize(t *testing.T) {
	c := Default()

	cases := []struct {
		tag  string
		want string
	}{
		{"read", "read"},
		{"pread64", "read"},
		{"READV", "read"},
		{"write", "write"},
		{"pwrite64", "write"},
		{"ioctl", "ioctl"},
		{"binder_transaction", "binder"},
		{"tcp_sendmsg", "network"},
		{"udp_recvmsg", "network"},
		{"socket", "network"},
		{"inet_csk_accept", "network"},
		{"futex", "other"},
		{"", "other"},
	}

	for _, tc := range cases {
		got := c.Categorize(&model.Event{Name: tc.tag})
		assert.Equalf(t, tc.want, got, "tag %q", tc.tag)
	}
}

func TestCategorizeFirstMatchWins(t *testing.T) {
	// "readahead_write" matches both the read and write rules; the read
	// rule is declared first.
	c := Default()
	assert.Equal(t, "read", c.Categorize(&model.Event{Name: "readahead_write"}))
}

func TestDefaultVocabularyOrder(t *testing.T) {
	c := Default()
	require.Equal(t, []string{"read", "write", "ioctl", "binder", "network", "other"}, c.Categories())
}

func TestCustomRuleTable(t *testing.T) {
	rules := []Rule{
		{Pattern: "open", Category: "fs"},
		{Pattern: "close", Category: "fs"},
	}
	c := New(rules, []string{"fs", "other"})

	assert.Equal(t, "fs", c.Categorize(&model.Event{Name: "openat"}))
	assert.Equal(t, "other", c.Categorize(&model.Event{Name: "read"}))
}

func TestCategoriesReturnsCopy(t *testing.T) {
	c := Default()
	cats := c.Categories()
	cats[0] = "mutated"
	assert.Equal(t, "read", c.Categories()[0])
}

func TestPrefixProbe(t *testing.T) {
	p := NewPrefixProbe(nil)

	cases := []struct {
		path string
		want bool
	}{
		{"/data/data/com.example/shared_prefs/x.xml", true},
		{"/system/lib/libc.so", true},
		{"/proc/self/maps", true},
		{"/dev/binder", true},
		{"/sdcard/Download/file", false},
		{"", false},
	}

	for _, tc := range cases {
		got := p.Sensitive(&model.Event{Pathname: tc.path})
		assert.Equalf(t, tc.want, got, "path %q", tc.path)
	}
}

func TestPrefixProbeCustomPrefixes(t *testing.T) {
	p := NewPrefixProbe([]string{"/sdcard/"})
	assert.True(t, p.Sensitive(&model.Event{Pathname: "/sdcard/secret"}))
	assert.False(t, p.Sensitive(&model.Event{Pathname: "/proc/self/maps"}))
}
