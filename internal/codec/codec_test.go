package codec

import (
	"bytes"
	"crypto/rand"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomBytes(t *testing.T, n int) []byte {
	t.Helper()
	b := make([]byte, n)
	_, err := rand.Read(b)
	require.NoError(t, err)
	return b
}

func TestClassify(t *testing.T) {
	iv := strings.Repeat("ab", IVSize)
	tag := strings.Repeat("cd", TagSize)

	tests := []struct {
		name  string
		value string
		want  Format
	}{
		{name: "empty string", value: "", want: FormatPlaintext},
		{name: "plain note", value: "for the mosque roof", want: FormatPlaintext},
		{name: "zk prefix", value: "zk:v1:AAAA:BBBB", want: FormatZeroKnowledge},
		{name: "zk prefix with garbage body", value: "zk:v1:", want: FormatZeroKnowledge},
		{name: "legacy shape", value: iv + ":00ff:" + tag, want: FormatLegacy},
		{name: "legacy shape with empty ciphertext", value: iv + "::" + tag, want: FormatLegacy},
		{name: "legacy with short iv", value: "abcd:00ff:" + tag, want: FormatPlaintext},
		{name: "legacy with non-hex iv", value: strings.Repeat("zz", IVSize) + ":00:" + tag, want: FormatPlaintext},
		{name: "two components", value: iv + ":00ff", want: FormatPlaintext},
		{name: "four components", value: iv + ":00:ff:" + tag, want: FormatPlaintext},
		{name: "time of day", value: "12:30:45", want: FormatPlaintext},
		{name: "uppercase zk prefix is not zk", value: "ZK:V1:abc", want: FormatPlaintext},
		{name: "zk prefix wins over legacy-looking body", value: ZeroKnowledgePrefix + iv + ":00:" + tag, want: FormatZeroKnowledge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.value))
		})
	}
}

func TestClassify_EncodersRoundTrip(t *testing.T) {
	for i := 0; i < 50; i++ {
		iv := randomBytes(t, IVSize)
		ct := randomBytes(t, i)
		tag := randomBytes(t, TagSize)

		assert.Equal(t, FormatZeroKnowledge, Classify(EncodeZeroKnowledge(iv, append(ct, tag...))))
		assert.Equal(t, FormatLegacy, Classify(EncodeLegacy(iv, ct, tag)))
	}
}

func TestParse_ZeroKnowledge(t *testing.T) {
	iv := randomBytes(t, IVSize)
	sealed := randomBytes(t, 40)

	f := Parse(EncodeZeroKnowledge(iv, sealed))
	require.Equal(t, FormatZeroKnowledge, f.Format())
	assert.True(t, f.IsZeroKnowledge())

	c, err := f.Decode()
	require.NoError(t, err)
	assert.Equal(t, iv, c.IV)
	assert.Equal(t, sealed, c.Sealed)
}

func TestParse_Legacy(t *testing.T) {
	iv := randomBytes(t, IVSize)
	ct := randomBytes(t, 20)
	tag := randomBytes(t, TagSize)

	f := Parse(EncodeLegacy(iv, ct, tag))
	require.Equal(t, FormatLegacy, f.Format())
	assert.True(t, f.IsLegacy())

	c, err := f.Decode()
	require.NoError(t, err)
	assert.Equal(t, iv, c.IV)
	assert.True(t, bytes.Equal(append(ct, tag...), c.Sealed))
}

func TestParse_MalformedDoesNotPanic(t *testing.T) {
	iv := strings.Repeat("ab", IVSize)

	tests := []struct {
		name   string
		value  string
		format Format
	}{
		{name: "zk without body", value: "zk:v1:", format: FormatZeroKnowledge},
		{name: "zk bad base64", value: "zk:v1:!!!:???", format: FormatZeroKnowledge},
		{name: "zk short sealed", value: EncodeZeroKnowledge(make([]byte, IVSize), []byte{1, 2}), format: FormatZeroKnowledge},
		{name: "legacy bad ciphertext hex", value: iv + ":xyz:" + strings.Repeat("00", TagSize), format: FormatLegacy},
		{name: "legacy short tag", value: iv + ":00:00", format: FormatLegacy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Parse(tt.value)
			assert.Equal(t, tt.format, f.Format())

			_, err := f.Decode()
			assert.ErrorIs(t, err, ErrMalformedField)
			assert.Equal(t, tt.value, f.String())
		})
	}
}

func TestDecode_Plaintext(t *testing.T) {
	_, err := Parse("hello").Decode()
	assert.ErrorIs(t, err, ErrNotEncrypted)
}

func TestNewPlaintext_RefusesEncryptedShapes(t *testing.T) {
	_, err := NewPlaintext("zk:v1:abc")
	assert.ErrorIs(t, err, ErrClassificationAmbiguous)

	_, err = NewPlaintext(EncodeLegacy(make([]byte, IVSize), []byte{1}, make([]byte, TagSize)))
	assert.ErrorIs(t, err, ErrClassificationAmbiguous)

	f, err := NewPlaintext("Ahmed")
	require.NoError(t, err)
	assert.Equal(t, FormatPlaintext, f.Format())
}

func TestConstructors_Validate(t *testing.T) {
	_, err := NewZeroKnowledge([]byte{1}, make([]byte, TagSize))
	assert.ErrorIs(t, err, ErrInvalidIVLength)

	_, err = NewZeroKnowledge(make([]byte, IVSize), []byte{1})
	assert.ErrorIs(t, err, ErrMalformedField)

	_, err = NewLegacy(make([]byte, IVSize), []byte{1}, []byte{1})
	assert.ErrorIs(t, err, ErrMalformedField)

	f, err := NewLegacy(make([]byte, IVSize), nil, make([]byte, TagSize))
	require.NoError(t, err)
	assert.Equal(t, FormatLegacy, Parse(f.String()).Format())
}

func TestField_ScanAndValue(t *testing.T) {
	iv := randomBytes(t, IVSize)
	sealed := randomBytes(t, 32)
	encoded := EncodeZeroKnowledge(iv, sealed)

	var f Field
	require.NoError(t, f.Scan(encoded))
	assert.True(t, f.IsZeroKnowledge())

	v, err := f.Value()
	require.NoError(t, err)
	assert.Equal(t, encoded, v)

	require.NoError(t, f.Scan([]byte("plain")))
	assert.Equal(t, FormatPlaintext, f.Format())

	require.NoError(t, f.Scan(nil))
	assert.True(t, f.IsEmpty())

	assert.Error(t, f.Scan(42))
}

func TestField_JSON(t *testing.T) {
	type payload struct {
		Recipient Field `json:"recipient"`
		Notes     Field `json:"notes"`
	}

	encoded := EncodeZeroKnowledge(randomBytes(t, IVSize), randomBytes(t, 24))
	in := []byte(`{"recipient":"` + encoded + `","notes":null}`)

	var p payload
	require.NoError(t, json.Unmarshal(in, &p))
	assert.True(t, p.Recipient.IsZeroKnowledge())
	assert.True(t, p.Notes.IsEmpty())

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"recipient":"`+encoded+`","notes":""}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"recipient":5}`), &p))
}
