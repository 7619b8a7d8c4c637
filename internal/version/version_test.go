package version

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionStrings(t *testing.T) {
	short := ShortWithApp()
	assert.True(t, strings.HasPrefix(short, AppName+" "+Version))
	assert.Contains(t, short, Revision)

	detailed := Detailed()
	assert.Contains(t, detailed, Version)
	assert.Contains(t, detailed, runtime.Version())
	assert.Contains(t, detailed, runtime.GOOS+"/"+runtime.GOARCH)

	assert.Equal(t, AppName+" "+detailed, DetailedWithApp())
	assert.NotEmpty(t, BuildDate)
}
