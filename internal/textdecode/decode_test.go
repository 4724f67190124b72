package textdecode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeNamedEntities(t *testing.T) {
	assert.Equal(t, "Beauty & Wellness", Decode("Beauty &amp; Wellness"))
	assert.Equal(t, `"The" <Shop>`, Decode("&quot;The&quot; &lt;Shop&gt;"))
	assert.Equal(t, "L'Occitane", Decode("L&#039;Occitane"))
}

func TestDecodeDoubleEncoded(t *testing.T) {
	// "&amp;amp;" must unwrap all the way to "&".
	assert.Equal(t, "Food & Beverage", Decode("Food &amp;amp; Beverage"))
}

func TestDecodeNumericReference(t *testing.T) {
	assert.Equal(t, "A B", Decode("A&#32;B"))
}

func TestDecodeUnicodeEscape(t *testing.T) {
	assert.Equal(t, "café", Decode(`caf\u00e9`))
}

func TestDecodeUnknownEntityKept(t *testing.T) {
	assert.Equal(t, "&copy; 2024", Decode("&copy; 2024"))
}

func TestDecodeEmpty(t *testing.T) {
	assert.Equal(t, "", Decode(""))
}
