package cmd

import (
	"crypto/md5"
	"fmt"
	"image"
	"image/color" // This is the standard library color package
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/nfnt/resize"
	"golang.org/x/term"

	"github.com/arcanaland/translationbag/internal/card"
	"github.com/arcanaland/translationbag/internal/config"
	"github.com/arcanaland/translationbag/internal/deck"
	"github.com/arcanaland/translationbag/internal/names"
	"github.com/arcanaland/translationbag/internal/pipeline"

	colorize "github.com/fatih/color" // Rename this import to avoid the conflict
	"github.com/spf13/cobra"
)

// Preview size in character cells; one cell shows two pixel rows
const (
	previewWidth  = 30
	previewHeight = 21
)

var showCmd = &cobra.Command{
	Use:   "show [card_id]",
	Short: "Display where a card lands, with an ANSI preview",
	Long: `Show indexes the source folder, finds the card and prints its file, sides,
planned sheet and slot next to an ANSI rendering of the image.
The localized name is shown when it is already in the name cache.

Examples:
  translationbag show 01001
  translationbag show --source ./fr-cards 02104b`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cardID := args[0]

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := applyBuildFlags(cmd, cfg); err != nil {
			return err
		}

		layout, err := pipeline.Prepare(cfg)
		if err != nil {
			return err
		}

		e, ok := layout.Index.Entry(cardID)
		if !ok {
			return fmt.Errorf("card not found in %s: %s", cfg.SourceFolder, cardID)
		}
		sheet := layout.Plan.ByID()[e.Slot.Sheet]

		cache := names.NewCache(config.NameCachePath(cfg.Locale))
		if err := cache.Load(); err != nil {
			logger.Debug("Ignoring unreadable name cache", "error", err)
		}
		name, _ := names.NewService(nil, cache).Name(cmd.Context(), e.ID)

		ansiPath, err := findAnsiFile(e.Path)
		if err != nil {
			return fmt.Errorf("error rendering preview: %v", err)
		}

		ansiArt, err := loadAnsiArt(ansiPath)
		if err != nil {
			return fmt.Errorf("error loading ANSI art: %v", err)
		}

		displayCard(e, sheet, name, ansiArt, cfg.Locale)

		return nil
	},
}

func init() {
	RootCmd.AddCommand(showCmd)

	showCmd.Flags().StringP("source", "s", "", "folder with the card images")
	showCmd.Flags().Int("capacity", 0, "cards per sheet")
	showCmd.Flags().Bool("split-cycles", false, "start a new sheet whenever the cycle changes")
}

// findAnsiFile returns the cached ANSI art for an image, rendering it on first use
func findAnsiFile(imagePath string) (string, error) {
	cacheDir := filepath.Join(config.GetCacheDir(), "ansi_cache")
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create ANSI cache directory: %v", err)
	}

	info, err := os.Stat(imagePath)
	if err != nil {
		return "", err
	}

	// Key on path and modification time so edited images render again
	key := fmt.Sprintf("%s|%d", imagePath, info.ModTime().UnixNano())
	cachePath := filepath.Join(cacheDir, fmt.Sprintf("%x.ansi", md5.Sum([]byte(key))))

	if _, err := os.Stat(cachePath); !os.IsNotExist(err) {
		return cachePath, nil
	}

	if err := generateAnsiArt(imagePath, cachePath); err != nil {
		return "", fmt.Errorf("failed to generate ANSI art: %v", err)
	}

	return cachePath, nil
}

// generateAnsiArt converts an image file to ANSI art and saves it to the specified output path
func generateAnsiArt(imagePath, outputPath string) error {
	img, err := imaging.Open(imagePath)
	if err != nil {
		return fmt.Errorf("failed to decode image: %v", err)
	}

	ansiArt := imageToAnsi(img, previewWidth, previewHeight)

	if err := os.WriteFile(outputPath, []byte(ansiArt), 0644); err != nil {
		return fmt.Errorf("failed to write ANSI art to file: %v", err)
	}

	return nil
}

// imageToAnsi converts an image to truecolor half-block art
func imageToAnsi(img image.Image, width, height int) string {
	// Resize image to desired dimensions (doubled for half-block characters)
	resized := resize.Resize(uint(width*2), uint(height*2), img, resize.Lanczos3)

	var buffer strings.Builder

	for y := 0; y < height*2; y += 2 {
		for x := 0; x < width*2; x += 2 {
			// Top pixels as foreground, bottom pixels as background
			col1, _ := colorful.MakeColor(getColorAt(resized, x, y))
			col2, _ := colorful.MakeColor(getColorAt(resized, x+1, y))
			col3, _ := colorful.MakeColor(getColorAt(resized, x, y+1))
			col4, _ := colorful.MakeColor(getColorAt(resized, x+1, y+1))

			fg := colorfulToColor(averageColor(col1, col2))
			bg := colorfulToColor(averageColor(col3, col4))

			buffer.WriteString(ansiColorString('▀', fg, bg))
		}
		buffer.WriteString("\n")
	}

	return buffer.String()
}

// getColorAt returns the color at a specific coordinate
func getColorAt(img image.Image, x, y int) color.Color {
	bounds := img.Bounds()
	if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
		return img.At(x, y)
	}
	return color.RGBA{0, 0, 0, 255} // Return black for out-of-bounds
}

// averageColor calculates the average of multiple colors
func averageColor(colors ...colorful.Color) colorful.Color {
	var r, g, b float64
	for _, c := range colors {
		r += c.R
		g += c.G
		b += c.B
	}
	count := float64(len(colors))
	return colorful.Color{R: r / count, G: g / count, B: b / count}
}

// colorfulToColor converts a colorful.Color to a standard color.Color
func colorfulToColor(c colorful.Color) color.Color {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// ansiColorString formats a character with truecolor ANSI codes
func ansiColorString(char rune, fg, bg color.Color) string {
	r1, g1, b1, _ := fg.RGBA()
	r2, g2, b2, _ := bg.RGBA()

	// RGBA() returns values in range 0-65535
	r1, g1, b1 = r1>>8, g1>>8, b1>>8
	r2, g2, b2 = r2>>8, g2>>8, b2>>8

	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm%c\x1b[0m",
		r1, g1, b1, r2, g2, b2, char)
}

// loadAnsiArt loads the ANSI art from a file
func loadAnsiArt(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// sidesLabel describes which face of which card the entry is
func sidesLabel(e card.Entry) string {
	switch {
	case e.Back:
		return "back of " + e.Pair
	case e.DoubleSided:
		return "front, back is " + e.Pair
	default:
		return "single-sided"
	}
}

// displayCard prints the ANSI art with the card information on its right
func displayCard(e card.Entry, sheet *deck.Sheet, name, ansiArt, locale string) {
	if colorize.NoColor {
		ansiArt = stripAnsi(ansiArt)
	}
	ansiLines := strings.Split(strings.TrimRight(ansiArt, "\n"), "\n")
	maxAnsiWidth := 0
	for _, line := range ansiLines {
		// Calculate the visible width (excluding ANSI escape sequences)
		visibleWidth := len([]rune(stripAnsi(line)))
		if visibleWidth > maxAnsiWidth {
			maxAnsiWidth = visibleWidth
		}
	}

	// Get terminal width
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		width = 80 // Default if we can't get terminal width
	}

	if name == "" {
		name = "(not cached)"
	}

	var infoLines []string
	infoLines = append(infoLines, colorize.CyanString("Card:  ")+colorize.HiWhiteString("%s", name))
	infoLines = append(infoLines, colorize.CyanString("ID:    ")+colorize.HiWhiteString("%s", e.ID))
	infoLines = append(infoLines, colorize.CyanString("Cycle: ")+colorize.HiWhiteString("%s", e.Cycle))
	infoLines = append(infoLines, colorize.CyanString("Sides: ")+colorize.HiWhiteString("%s", sidesLabel(e)))

	if sheet != nil {
		infoLines = append(infoLines, "")
		infoLines = append(infoLines, colorize.CyanString("Sheet: ")+
			colorize.HiWhiteString("%s · %s #%d", sheet.Name(locale), sheet.Kind, sheet.ID))
		infoLines = append(infoLines, colorize.CyanString("Grid:  ")+
			colorize.HiWhiteString("%d×%d, %d cards", sheet.Cols, sheet.Rows, sheet.Len()))
		infoLines = append(infoLines, colorize.CyanString("Slot:  ")+
			colorize.HiWhiteString("%d (row %d, col %d)", e.Slot.Index, e.Slot.Row, e.Slot.Col))
	}

	// Shorten the path from the left when it does not fit beside the art
	spacing := 4
	infoStartCol := maxAnsiWidth + spacing
	infoWidth := width - infoStartCol - 2
	if infoWidth < 20 {
		infoWidth = 20 // Minimum width for text
	}
	path := e.Path
	if r := []rune(path); len(r)+7 > infoWidth && infoWidth > 10 {
		path = "…" + string(r[len(r)-(infoWidth-8):])
	}
	infoLines = append(infoLines, "")
	infoLines = append(infoLines, colorize.CyanString("File:  ")+path)

	fmt.Println()

	maxLines := max(len(ansiLines), len(infoLines))
	for i := 0; i < maxLines; i++ {
		fmt.Print("  ")
		if i < len(ansiLines) {
			fmt.Print(ansiLines[i])
			visibleWidth := len([]rune(stripAnsi(ansiLines[i])))
			fmt.Print(strings.Repeat(" ", infoStartCol-visibleWidth))
		} else {
			fmt.Print(strings.Repeat(" ", infoStartCol))
		}

		if i < len(infoLines) {
			fmt.Print(infoLines[i])
		}

		fmt.Println()
	}

	fmt.Println()
}

// stripAnsi removes ANSI escape sequences from a string
func stripAnsi(s string) string {
	var result strings.Builder
	inEscape := false
	for _, c := range s {
		if inEscape {
			if c == 'm' {
				inEscape = false
			}
		} else if c == '\033' {
			inEscape = true
		} else {
			result.WriteRune(c)
		}
	}
	return result.String()
}
