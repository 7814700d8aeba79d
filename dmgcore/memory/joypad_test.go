package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoypad_InitialStateIsAllReleased(t *testing.T) {
	j := NewJoypad()
	j.Write(0x00) // select both groups
	assert.Equal(t, uint8(0xCF), j.Read())
}

func TestJoypad_SelectsDpadGroupOnly(t *testing.T) {
	j := NewJoypad()
	j.Press(Up)
	j.Write(0x20) // bit 4 low selects dpad, bit 5 high deselects buttons
	assert.Equal(t, uint8(0x0B), j.Read()&0x0F, "Up (bit 2) should read low, others high")
}

func TestJoypad_SelectsButtonGroupOnly(t *testing.T) {
	j := NewJoypad()
	j.Press(A)
	j.Write(0x10) // bit 5 low selects buttons, bit 4 high deselects dpad
	assert.Equal(t, uint8(0x0E), j.Read()&0x0F, "A (bit 0) should read low, others high")
}

func TestJoypad_NeitherGroupSelectedReadsAllHigh(t *testing.T) {
	j := NewJoypad()
	j.Press(A)
	j.Press(Up)
	j.Write(0x30)
	assert.Equal(t, uint8(0x0F), j.Read()&0x0F)
}

func TestJoypad_PressRequestsInterruptOnHighToLowTransition(t *testing.T) {
	j := NewJoypad()
	j.Write(0x00)
	fired := false
	j.InterruptHandler = func() { fired = true }

	j.Press(Start)
	assert.True(t, fired)
}

func TestJoypad_ReleaseDoesNotRequestInterrupt(t *testing.T) {
	j := NewJoypad()
	j.Write(0x00)
	j.Press(B)
	fired := false
	j.InterruptHandler = func() { fired = true }

	j.Release(B)
	assert.False(t, fired)
}

func TestJoypad_PressAlreadyPressedKeyDoesNotRefire(t *testing.T) {
	j := NewJoypad()
	j.Write(0x00)
	j.Press(Down)
	fired := false
	j.InterruptHandler = func() { fired = true }

	j.Press(Down) // no transition: already pressed
	assert.False(t, fired)
}
