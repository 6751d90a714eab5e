package vntext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "Nguyen Van Duc", Fold("Nguyễn Văn Đức"))
	assert.Equal(t, "Tran Thi Hoa", Fold("Trần Thị Hoà"))
	assert.Equal(t, "dong Da", Fold("đống Đa"))
	assert.Equal(t, "already plain", Fold("already plain"))
	assert.Equal(t, "", Fold(""))
}

func TestFold_SpacingModifierCircumflex(t *testing.T) {
	// Some exports emit the spacing U+02C6 instead of a combining mark.
	assert.Equal(t, "An", Fold("Aˆn"))
	assert.Equal(t, FoldLower("Hân"), FoldLower("Haˆn"))
}

func TestFoldLower(t *testing.T) {
	assert.Equal(t, "nguyen van a", FoldLower("  Nguyễn Văn A "))
	assert.Equal(t, "le quy don", FoldLower("LÊ QUÝ ĐÔN"))

	// Accented and unaccented spellings of the same name normalize equal.
	assert.Equal(t, FoldLower("Phạm Thị Yến"), FoldLower("Pham Thi Yen"))
}
