package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/wippyai/wasm-embedded/manifest"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB")).
			Width(10)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

func manifestBuild(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("wasme manifest build", stderr)
	appPath := fs.String("app", "", "application binary")
	metaPath := fs.String("meta", "", "metadata binary")
	keyPath := fs.String("key", "", "ed25519 public key, raw or hex")
	flags := fs.Uint16("flags", 0, "manifest flags")
	digest := fs.String("digest", manifest.SHA512.String(), "digest algorithm: sha512, blake2b-512, blake3")
	out := fs.StringP("output", "o", "", "output file (default: stdout)")
	if ok, err := parse(fs, args); !ok {
		return err
	}

	alg, err := manifest.ParseAlgorithm(*digest)
	if err != nil {
		return err
	}

	b := manifest.NewBuilder(manifest.WithAlgorithm(alg)).Flags(*flags)
	if *appPath != "" {
		b.AppFile(*appPath)
	}
	if *metaPath != "" {
		b.MetaFile(*metaPath)
	}
	if *keyPath != "" {
		key, err := manifest.LoadPublicKey(*keyPath)
		if err != nil {
			return err
		}
		b.Key(key)
	}

	m, err := b.Build()
	if err != nil {
		return err
	}
	bin, err := m.MarshalBinary()
	if err != nil {
		return err
	}
	return writeOutput(*out, bin, stdout)
}

func manifestShow(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("wasme manifest show", stderr)
	if ok, err := parse(fs, args); !ok {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("manifest show: expected one manifest path")
	}

	m, err := readManifest(fs.Arg(0))
	if err != nil {
		return err
	}
	fmt.Fprint(stdout, renderManifest(m, isTerminal(stdout)))
	return nil
}

func manifestVerify(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("wasme manifest verify", stderr)
	appPath := fs.String("app", "", "application binary")
	metaPath := fs.String("meta", "", "metadata binary")
	digest := fs.String("digest", manifest.SHA512.String(), "digest algorithm")
	if ok, err := parse(fs, args); !ok {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("manifest verify: expected one manifest path")
	}

	alg, err := manifest.ParseAlgorithm(*digest)
	if err != nil {
		return err
	}
	m, err := readManifest(fs.Arg(0))
	if err != nil {
		return err
	}
	app, err := readOptional(*appPath)
	if err != nil {
		return err
	}
	meta, err := readOptional(*metaPath)
	if err != nil {
		return err
	}

	if err := m.VerifyWith(alg, app, meta); err != nil {
		return err
	}
	status := "unsigned"
	if m.Signed() {
		status = "signature not checked"
	}
	fmt.Fprintf(stdout, "ok: app %d bytes, meta %d bytes, %s (%s)\n", m.AppLen, m.MetaLen, alg, status)
	return nil
}

func readManifest(path string) (manifest.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return manifest.Manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	return manifest.Parse(data)
}

// readOptional returns nil for an empty path, which verifies as a zero
// length binary.
func readOptional(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	return os.ReadFile(path)
}

func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func renderManifest(m manifest.Manifest, styled bool) string {
	key := "none"
	if m.HasKey() {
		key = fmt.Sprintf("%x", m.Key)
	}
	sig := "unsigned"
	if m.Signed() {
		sig = fmt.Sprintf("%x", m.Sig)
	}

	rows := [][2]string{
		{"version", strconv.Itoa(int(m.Version))},
		{"flags", fmt.Sprintf("0x%04x", m.Flags)},
		{"app", fmt.Sprintf("%d bytes", m.AppLen)},
		{"app sum", m.AppSum.String()},
		{"meta", fmt.Sprintf("%d bytes", m.MetaLen)},
		{"meta sum", m.MetaSum.String()},
		{"key", key},
		{"sig", sig},
	}

	var sb strings.Builder
	if styled {
		sb.WriteString(titleStyle.Render("manifest"))
		sb.WriteString("\n")
	}
	for _, r := range rows {
		if !styled {
			fmt.Fprintf(&sb, "%-10s%s\n", r[0], r[1])
			continue
		}
		value := valueStyle.Render(r[1])
		if r[1] == "none" || r[1] == "unsigned" {
			value = dimStyle.Render(r[1])
		}
		sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, keyStyle.Render(r[0]), value))
		sb.WriteString("\n")
	}
	return sb.String()
}
