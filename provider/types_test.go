package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunOptionsChannel(t *testing.T) {
	assert.Equal(t, DefaultChannel, RunOptions{}.Channel())
	assert.Equal(t, "c42", RunOptions{ChannelID: "c42"}.Channel())
}
