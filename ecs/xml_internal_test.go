package ecs

import (
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRebuildElement(t *testing.T) {
	start := xml.StartElement{
		Name: xml.Name{Local: "hp"},
		Attr: []xml.Attr{{Name: xml.Name{Local: "name"}, Value: "shield"}},
	}

	body, err := rebuildElement(start, []byte("<current>3</current>"))
	require.NoError(t, err)
	assert.Equal(t, `<hp name="shield"><current>3</current></hp>`, string(body))
}

func TestRebuildElementInvalidName(t *testing.T) {
	_, err := rebuildElement(xml.StartElement{}, []byte("<x>1</x>"))
	assert.Error(t, err)
}
