package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// TesseractRecognizer shells out to the tesseract binary. Input is written to
// a temporary file because tesseract reads stdin unreliably across versions.
type TesseractRecognizer struct {
	binary string
}

func NewTesseractRecognizer(binary string) *TesseractRecognizer {
	if binary == "" {
		binary = "tesseract"
	}
	return &TesseractRecognizer{binary: binary}
}

func (r *TesseractRecognizer) Name() string { return "tesseract" }

// Available reports whether the tesseract binary can be executed.
func (r *TesseractRecognizer) Available() bool {
	return exec.Command(r.binary, "--version").Run() == nil
}

func (r *TesseractRecognizer) Recognize(ctx context.Context, imageBytes []byte, languageHint string) (string, error) {
	if languageHint == "" {
		languageHint = "swe+eng"
	}

	tmp, err := os.CreateTemp("", "ocr-*.png")
	if err != nil {
		return "", fmt.Errorf("failed to create temp image: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(imageBytes); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write temp image: %w", err)
	}
	tmp.Close()

	var out, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.binary, tmp.Name(), "stdout", "-l", languageHint, "--psm", "3")
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tesseract failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	return strings.TrimSpace(out.String()), nil
}
