// file: services/flagmap_test.go
package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePodFlagMap(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want map[uint32]string
	}{
		{
			name: "empty input",
			raw:  "",
			want: map[uint32]string{},
		},
		{
			name: "whitespace only",
			raw:  "   \n\t\n  ",
			want: map[uint32]string{},
		},
		{
			name: "single entry",
			raw:  "1=FLAG{abc}",
			want: map[uint32]string{1: "FLAG{abc}"},
		},
		{
			name: "multiple entries with blank lines",
			raw:  "1=abc\n\n2=def\n",
			want: map[uint32]string{1: "abc", 2: "def"},
		},
		{
			name: "last write wins for duplicate pod",
			raw:  "1=abc\n2=def\n1=xyz",
			want: map[uint32]string{1: "xyz", 2: "def"},
		},
		{
			name: "secret may contain equals sign",
			raw:  "3=a=b=c",
			want: map[uint32]string{3: "a=b=c"},
		},
		{
			name: "tokens are trimmed",
			raw:  "  7  =  FLAG{x}  ",
			want: map[uint32]string{7: "FLAG{x}"},
		},
		{
			name: "empty secret means not yet set",
			raw:  "1=abc\n2=   \n3=def",
			want: map[uint32]string{1: "abc", 3: "def"},
		},
		{
			name: "windows line endings",
			raw:  "1=abc\r\n2=def\r\n",
			want: map[uint32]string{1: "abc", 2: "def"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePodFlagMap(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePodFlagMapMalformed(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantLine  int
		wantToken string
	}{
		{
			name:     "missing separator on first line",
			raw:      "nota line",
			wantLine: 1,
		},
		{
			name:     "missing separator on later line",
			raw:      "1=abc\nbroken",
			wantLine: 2,
		},
		{
			name:      "non numeric pod id",
			raw:       "abc=FLAG{x}",
			wantLine:  1,
			wantToken: "abc",
		},
		{
			name:      "float pod id rejected",
			raw:       "1=ok\n2.5=FLAG{x}",
			wantLine:  2,
			wantToken: "2.5",
		},
		{
			name:      "negative pod id rejected",
			raw:       "-3=FLAG{x}",
			wantLine:  1,
			wantToken: "-3",
		},
		{
			name:      "trailing garbage in pod id",
			raw:       "5x=FLAG{x}",
			wantLine:  1,
			wantToken: "5x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePodFlagMap(tt.raw)
			require.Error(t, err)

			var malformed *MalformedMappingError
			require.True(t, errors.As(err, &malformed))
			assert.Equal(t, tt.wantLine, malformed.Line)
			assert.Equal(t, tt.wantToken, malformed.Token)
		})
	}
}

func TestFormatPodFlagMap(t *testing.T) {
	mapping := map[uint32]string{10: "c", 2: "b", 1: "a"}
	assert.Equal(t, "1=a\n2=b\n10=c", FormatPodFlagMap(mapping))
	assert.Equal(t, "", FormatPodFlagMap(map[uint32]string{}))
}

func TestParseFormatRoundTrip(t *testing.T) {
	raw := "1=abc\n2=def\n1=xyz\n9=a=b"
	mapping, err := ParsePodFlagMap(raw)
	require.NoError(t, err)

	// 解析规范序列化的结果必须得到同一映射
	again, err := ParsePodFlagMap(FormatPodFlagMap(mapping))
	require.NoError(t, err)
	assert.Equal(t, mapping, again)
}
