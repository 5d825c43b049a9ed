package handleset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNormalize memastikan normalisasi username konsisten:
// huruf kecil, "@" di depan dibuang, spasi pinggir dibuang
func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"@Budi_01", "budi_01"},
		{"BUDI_01", "budi_01"},
		{"  @siti.aminah  ", "siti.aminah"},
		{"plain", "plain"},
		{"@", ""},
		{"", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Normalize(c.in), "input: %q", c.in)
	}
}

// TestSetAddContains memastikan keanggotaan dibandingkan lewat bentuk ternormalisasi
func TestSetAddContains(t *testing.T) {
	s := New("@Budi_01", "SITI")

	assert.True(t, s.Contains("budi_01"))
	assert.True(t, s.Contains("@BUDI_01"))
	assert.True(t, s.Contains("siti"))
	assert.False(t, s.Contains("lainnya"))

	// Duplikat dengan variasi penulisan tidak menambah anggota
	s.Add("@budi_01")
	s.Add("Budi_01")
	assert.Equal(t, 2, s.Len())

	// Username kosong diabaikan
	s.Add("")
	s.Add("@")
	assert.Equal(t, 2, s.Len())
}

// TestValuesSorted memastikan output deterministik
func TestValuesSorted(t *testing.T) {
	s := New("charlie", "@Alpha", "bravo")
	assert.Equal(t, []string{"alpha", "bravo", "charlie"}, s.Values())
}

// TestMergeExceptionsSuperset memastikan hasil merge selalu superset dari raw
// dan seluruh username pengecualian ikut masuk
func TestMergeExceptionsSuperset(t *testing.T) {
	raw := New("budi_01", "siti")
	exempt := New("@Kombes_Agus", "siti") // siti sudah ada di raw

	merged := MergeExceptions(raw, exempt)

	require.Equal(t, 3, merged.Len())
	for h := range raw {
		assert.True(t, merged.Contains(h), "anggota raw %q harus tetap ada", h)
	}
	assert.True(t, merged.Contains("kombes_agus"))
}

// TestMergeExceptionsIdempotent: merge dua kali dengan pengecualian yang sama
// menghasilkan himpunan yang identik
func TestMergeExceptionsIdempotent(t *testing.T) {
	raw := New("budi_01")
	exempt := New("@Kombes_Agus", "ipda_rina")

	once := MergeExceptions(raw, exempt)
	twice := MergeExceptions(once, exempt)

	assert.Equal(t, once.Values(), twice.Values())
}

// TestMergeExceptionsDoesNotMutateInput memastikan fungsi murni:
// raw dan exempt tidak berubah setelah merge
func TestMergeExceptionsDoesNotMutateInput(t *testing.T) {
	raw := New("budi_01")
	exempt := New("kombes_agus")

	_ = MergeExceptions(raw, exempt)

	assert.Equal(t, 1, raw.Len())
	assert.Equal(t, 1, exempt.Len())
}
