// Package main provides the edkeys CLI tool for deriving EdDSA network keys
// from a BIP39 mnemonic and inspecting their encoded forms.
package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/complex-gh/edkeys"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-tty"
	mcobra "github.com/muesli/mango-cobra"
	"github.com/muesli/roff"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/tyler-smith/go-bip39"
	"github.com/tyler-smith/go-bip39/wordlists"
	"golang.org/x/term"
	lang "golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

const (
	maxWidth    = 72
	defaultPath = "m/44'/1110'/0'/0'/0'"
)

var (
	baseStyle  = lipgloss.NewStyle().Margin(0, 0, 1, 2) //nolint:mnd
	red        = lipgloss.Color(completeColor("#FF4444", "196", "9"))
	errorStyle = baseStyle.
			Foreground(red).
			Background(lipgloss.AdaptiveColor{Light: completeColor("#FFEBEB", "255", "7"), Dark: completeColor("#2B1A1A", "235", "8")}).
			Padding(1, 2) //nolint:mnd

	language       string
	curveName      string
	derivationPath string
	hashNames      string
	askPassphrase  bool

	rootCmd = &cobra.Command{
		Use:   "edkeys [mnemonic-path]",
		Short: "Derive EdDSA network keys from a BIP39 mnemonic",
		Long: `Derive EdDSA network keys from a BIP39 mnemonic.

edkeys reads a mnemonic from a file, from stdin, or from the first
argument, walks the given hardened derivation path on the selected
curve(s), and prints the resulting address, public key identifier,
key package, and extended keys.

Derivation is hardened-only: every path component must carry a
trailing apostrophe, the purpose must be 44' and the coin type 1110'.

SECURITY TIP: Add a space before the command to prevent it from being
saved in your shell history. Most shells (bash, zsh) are configured to
ignore commands that start with a space; check your HISTCONTROL or
HIST_IGNORE_SPACE settings.`,
		Example: `  edkeys mnemonic.txt
  edkeys mnemonic.txt --curve ed448
  edkeys mnemonic.txt --path "m/44'/1110'/2'/0'/0'"
  edkeys mnemonic.txt --hashes blake3,sha3-256
  edkeys mnemonic.txt --passphrase
  cat mnemonic.txt | edkeys --curve all`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// If no arguments provided and stdin is not a pipe, show help
			if len(args) == 0 {
				if fi, _ := os.Stdin.Stat(); (fi.Mode() & os.ModeNamedPipe) == 0 {
					return cmd.Help()
				}
			}

			if err := setLanguage(language); err != nil {
				return err
			}

			var mnemonicPath string
			if len(args) > 0 {
				mnemonicPath = args[0]
			}

			mnemonic, err := readMnemonic(mnemonicPath)
			if err != nil {
				return err
			}

			var passphrase string
			if askPassphrase {
				pass, err := readPassword("Enter the BIP39 passphrase: ")
				if err != nil {
					return err
				}
				passphrase = string(pass)
			}

			curves, err := parseCurves(curveName)
			if err != nil {
				return formatStyledError(err)
			}
			hashes, err := parseHashList(hashNames)
			if err != nil {
				return formatStyledError(err)
			}

			for _, curve := range curves {
				if err := printDerivation(mnemonic, passphrase, curve, derivationPath, hashes); err != nil {
					return formatStyledError(err)
				}
			}
			return nil
		},
	}

	wordCount int

	generateCmd = &cobra.Command{
		Use:   "generate",
		Short: "Generate a fresh BIP39 mnemonic",
		Long: `Generate a fresh BIP39 mnemonic from the secure random source.

Valid word counts are 12, 15, 18, 21, or 24.`,
		Example: `  edkeys generate
  edkeys generate --words 12
  edkeys generate --language spanish`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := setLanguage(language); err != nil {
				return err
			}
			mnemonic, err := edkeys.NewMnemonic(wordCount)
			if err != nil {
				return formatStyledError(err)
			}
			fmt.Println(mnemonic)
			return nil
		},
	}

	parseCmd = &cobra.Command{
		Use:   "parse <encoded>",
		Short: "Inspect an encoded key package or extended key",
		Long: `Inspect an encoded key package or extended key.

The input is tried as a key package first, then as an extended private
key, then as an extended public key. A package with a broken checksum
is still displayed, marked invalid.`,
		Example: `  edkeys parse JkxdJUtr2MdgnsfHVPRP324zXgkS7W4foEGfowDmtaWcpTWVFN7WipE
  edkeys parse xprvA3hvUk6TQst7n2...`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, args []string) error {
			if err := printParsed(args[0]); err != nil {
				return formatStyledError(err)
			}
			return nil
		},
	}

	manCmd = &cobra.Command{
		Use:          "man",
		Args:         cobra.NoArgs,
		Short:        "generate man pages",
		Hidden:       true,
		SilenceUsage: true,
		RunE: func(*cobra.Command, []string) error {
			manPage, err := mcobra.NewManPage(1, rootCmd)
			if err != nil {
				//nolint: wrapcheck
				return err
			}
			fmt.Println(manPage.Build(roff.NewDocument()))
			return nil
		},
	}

	// completionCmd generates shell completion scripts for bash, zsh, fish, and powershell.
	completionCmd = &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 "Generate shell completion script",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		SilenceUsage:          true,
		RunE: func(_ *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return rootCmd.GenBashCompletion(os.Stdout)
			case "zsh":
				return rootCmd.GenZshCompletion(os.Stdout)
			case "fish":
				return rootCmd.GenFishCompletion(os.Stdout, true)
			case "powershell":
				return rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
			default:
				return fmt.Errorf("unknown shell: %s", args[0])
			}
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&language, "language", "l", "en", "Mnemonic word list language")
	rootCmd.Flags().StringVarP(&curveName, "curve", "c", "ed25519", "Curve to derive for: ed25519, ed448, or all")
	rootCmd.Flags().StringVarP(&derivationPath, "path", "p", defaultPath, "Hardened derivation path")
	rootCmd.Flags().StringVar(&hashNames, "hashes", "sha3-256", "Comma-separated address hash chain (sha3-256, sha3-512, blake3)")
	rootCmd.Flags().BoolVar(&askPassphrase, "passphrase", false, "Prompt for a BIP39 passphrase")
	generateCmd.Flags().IntVarP(&wordCount, "words", "w", 24, "Word count (12, 15, 18, 21, or 24)")
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(manCmd)
	rootCmd.AddCommand(completionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// readMnemonic reads a mnemonic phrase from the given path, from "-", or
// from piped stdin, and normalizes surrounding whitespace.
func readMnemonic(path string) (string, error) {
	f, err := openFileOrStdin(path)
	if err != nil {
		return "", err
	}
	defer f.Close() //nolint:errcheck

	bts, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("could not read mnemonic: %w", err)
	}
	mnemonic := strings.Join(strings.Fields(string(bts)), " ")
	if mnemonic == "" {
		return "", fmt.Errorf("mnemonic input is empty")
	}
	return mnemonic, nil
}

func openFileOrStdin(path string) (*os.File, error) {
	if path == "-" {
		return os.Stdin, nil
	}

	if fi, _ := os.Stdin.Stat(); (fi.Mode() & os.ModeNamedPipe) != 0 {
		return os.Stdin, nil
	}

	// G304: path is user-provided input, which is expected for a CLI tool
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", path, err)
	}
	return f, nil
}

// printDerivation walks the path on one curve and prints every encoding of
// the resulting node.
func printDerivation(mnemonic, passphrase string, curve edkeys.Curve, path string, hashes []edkeys.HashType) error {
	master, err := edkeys.MasterFromMnemonic(mnemonic, passphrase, curve)
	if err != nil {
		return err
	}
	defer master.Wipe()

	node, err := master.DerivePath(path)
	if err != nil {
		return err
	}
	defer node.Wipe()

	pub, err := node.PublicKey()
	if err != nil {
		return err
	}

	addr, err := edkeys.Address(pub, curve, hashes)
	if err != nil {
		return err
	}
	id, err := edkeys.PublicKeyID(pub, curve, hashes)
	if err != nil {
		return err
	}
	pkg, err := edkeys.EncodePackage(pub, curve, hashes)
	if err != nil {
		return err
	}
	xprv, err := edkeys.EncodePrivate(node)
	if err != nil {
		return err
	}
	xpub, err := edkeys.EncodePublic(node)
	if err != nil {
		return err
	}

	fmt.Printf("[%s keys at %s]\n", curve, node.Path())
	fmt.Println()
	fmt.Printf("%s (address)\n", addr)
	fmt.Printf("%s (public key identifier)\n", id)
	fmt.Printf("%s (public key package)\n", pkg)
	fmt.Printf("%s (extended private key)\n", xprv)
	fmt.Printf("%s (extended public key)\n", xpub)
	fmt.Println()
	return nil
}

// printParsed tries the input as a package, then as an extended private
// key, then as an extended public key.
func printParsed(text string) error {
	if pkg, err := edkeys.ParsePackage(text); err == nil {
		names := make([]string, len(pkg.HashTypes))
		for i, h := range pkg.HashTypes {
			names[i] = h.String()
		}
		fmt.Println("[key package]")
		fmt.Println()
		fmt.Printf("%s (curve)\n", pkg.KeyType)
		fmt.Printf("%s (hash chain)\n", strings.Join(names, ","))
		fmt.Printf("%s (public key)\n", hex.EncodeToString(pkg.PublicKey))
		fmt.Printf("%d/%d (data/package bytes)\n", pkg.DataLength, pkg.PackageLength)
		fmt.Printf("%t (checksum valid)\n", pkg.Valid)
		return nil
	}

	if rec, err := edkeys.DecodePrivate(text); err == nil {
		printExtended("extended private key", rec)
		return nil
	}
	if rec, err := edkeys.DecodePublic(text); err == nil {
		printExtended("extended public key", rec)
		return nil
	}
	return fmt.Errorf("input is not a recognizable key package or extended key")
}

func printExtended(kind string, rec *edkeys.ExtendedKey) {
	fmt.Printf("[%s]\n", kind)
	fmt.Println()
	fmt.Printf("%d (depth)\n", rec.Depth)
	fmt.Printf("0x%08x (parent fingerprint)\n", rec.ParentFingerprint)
	fmt.Printf("0x%08x (index)\n", rec.Index)
	fmt.Printf("%s (chain code)\n", hex.EncodeToString(rec.ChainCode))
	if rec.Version == edkeys.VersionExtendedPublic {
		fmt.Printf("%s (public key, %s)\n", hex.EncodeToString(rec.Key), rec.Curve)
	} else {
		fmt.Println("(private key withheld)")
	}
}

// parseCurves resolves the --curve flag.
func parseCurves(name string) ([]edkeys.Curve, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "ed25519":
		return []edkeys.Curve{edkeys.Ed25519}, nil
	case "ed448":
		return []edkeys.Curve{edkeys.Ed448}, nil
	case "all":
		return []edkeys.Curve{edkeys.Ed25519, edkeys.Ed448}, nil
	}
	return nil, fmt.Errorf("unknown curve %q: must be ed25519, ed448, or all", name)
}

// parseHashList resolves the --hashes flag into an ordered hash chain.
func parseHashList(names string) ([]edkeys.HashType, error) {
	var hashes []edkeys.HashType
	for _, name := range strings.Split(names, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		switch strings.ToLower(name) {
		case "sha3-256":
			hashes = append(hashes, edkeys.HashSHA3256)
		case "sha3-512":
			hashes = append(hashes, edkeys.HashSHA3512)
		case "blake3":
			hashes = append(hashes, edkeys.HashBLAKE3)
		default:
			return nil, fmt.Errorf("unknown hash type %q: must be sha3-256, sha3-512, or blake3", name)
		}
	}
	return hashes, nil
}

func getWidth(maxw int) int {
	w, _, err := term.GetSize(int(os.Stdout.Fd())) //nolint: gosec
	if err != nil || w > maxw {
		return maxWidth
	}
	return w
}

func renderBlock(w io.Writer, s lipgloss.Style, width int, str string) {
	_, _ = io.WriteString(w, s.Width(width).Render(str))
	_, _ = io.WriteString(w, "\n")
}

// formatStyledError displays a styled error block on terminals and returns
// the plain error so the command exits non-zero.
func formatStyledError(err error) error {
	if isatty.IsTerminal(os.Stdout.Fd()) {
		b := strings.Builder{}
		w := getWidth(maxWidth)

		b.WriteRune('\n')
		renderBlock(&b, errorStyle, w, err.Error())
		b.WriteRune('\n')

		fmt.Print(b.String())
	}
	return err
}

func completeColor(truecolor, ansi256, ansi string) string {
	//nolint: exhaustive
	switch lipgloss.ColorProfile() {
	case termenv.TrueColor:
		return truecolor
	case termenv.ANSI256:
		return ansi256
	}
	return ansi
}

// setLanguage sets the language of the bip39 mnemonic word list.
func setLanguage(language string) error {
	list := getWordlist(language)
	if list == nil {
		return fmt.Errorf("this language is not supported")
	}
	bip39.SetWordList(list)
	return nil
}

func sanitizeLang(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), " ", "-")
}

var wordLists = map[lang.Tag][]string{
	lang.Chinese:              wordlists.ChineseSimplified,
	lang.SimplifiedChinese:    wordlists.ChineseSimplified,
	lang.TraditionalChinese:   wordlists.ChineseTraditional,
	lang.Czech:                wordlists.Czech,
	lang.AmericanEnglish:      wordlists.English,
	lang.BritishEnglish:       wordlists.English,
	lang.English:              wordlists.English,
	lang.French:               wordlists.French,
	lang.Italian:              wordlists.Italian,
	lang.Japanese:             wordlists.Japanese,
	lang.Korean:               wordlists.Korean,
	lang.Spanish:              wordlists.Spanish,
	lang.EuropeanSpanish:      wordlists.Spanish,
	lang.LatinAmericanSpanish: wordlists.Spanish,
}

func getWordlist(language string) []string {
	language = sanitizeLang(language)
	tag := lang.Make(language)
	en := display.English.Languages() // default language name matcher
	for t := range wordLists {
		if sanitizeLang(en.Name(t)) == language {
			tag = t
			break
		}
	}
	if tag == lang.Und { // Unknown language
		return nil
	}
	base, _ := tag.Base()
	btag := lang.MustParse(base.String())
	wl := wordLists[tag]
	if wl == nil {
		return wordLists[btag]
	}
	return wl
}

func readPassword(msg string) ([]byte, error) {
	_, _ = fmt.Fprint(os.Stderr, msg)
	defer fmt.Fprintf(os.Stderr, "\n")
	t, err := tty.Open()
	if err != nil {
		return nil, fmt.Errorf("could not open tty: %w", err)
	}
	defer t.Close()                                     //nolint: errcheck
	pass, err := term.ReadPassword(int(t.Input().Fd())) //nolint: gosec
	if err != nil {
		return nil, fmt.Errorf("could not read passphrase: %w", err)
	}
	return pass, nil
}
