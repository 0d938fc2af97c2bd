package cookie

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tokens, err := Extract("UID=a;CID=b;SEID=c;KID=d")
	assert.NoError(t, err)
	assert.Equal(t, "a", tokens.UID)
	assert.Equal(t, "b", tokens.CID)
	assert.Equal(t, "c", tokens.SEID)
	assert.Equal(t, "d", tokens.KID)
}

func TestExtract_BrowserFormat(t *testing.T) {
	// 浏览器导出的串里有空格和无关条目，顺序也不固定
	raw := "acw_tc=xyz; KID=kid-1; UID=uid-1_A1; other=noise; CID=cid-1; SEID=seid-1"
	tokens, err := Extract(raw)
	assert.NoError(t, err)
	assert.Equal(t, "uid-1_A1", tokens.UID)
	assert.Equal(t, "cid-1", tokens.CID)
	assert.Equal(t, "seid-1", tokens.SEID)
	assert.Equal(t, "kid-1", tokens.KID)
}

func TestExtract_Incomplete(t *testing.T) {
	cases := []string{
		"",
		"UID=a",
		"UID=a;CID=b;SEID=c", // 缺 KID
		"UID=;CID=b;SEID=c;KID=d",
		"garbage without separators",
	}
	for _, raw := range cases {
		_, err := Extract(raw)
		assert.ErrorIs(t, err, ErrIncompleteCredentials, "input: %q", raw)
	}
}

func TestExtract_DoesNotMatchSubstrings(t *testing.T) {
	// "CID" 不应该吃掉 "SEID" 或其他键的值
	tokens, err := Extract("SEID=s;UID=u;KID=k;CID=c")
	assert.NoError(t, err)
	assert.Equal(t, "c", tokens.CID)
	assert.Equal(t, "s", tokens.SEID)
}
