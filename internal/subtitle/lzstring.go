package subtitle

import (
	"errors"
	"fmt"

	lzstring "github.com/daku10/go-lz-string"
)

// ErrCorruptPayload 表示压缩数据无法解码。
var ErrCorruptPayload = errors.New("subtitle: corrupt compressed payload")

// DecompressFromBase64 解码客户端以 lz-string compressToBase64 压缩的文本。
// 空输入与解码结果为空都视为损坏。
func DecompressFromBase64(input string) (string, error) {
	if input == "" {
		return "", ErrCorruptPayload
	}
	text, err := lzstring.DecompressFromBase64(input)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorruptPayload, err)
	}
	if text == "" {
		return "", ErrCorruptPayload
	}
	return text, nil
}
