package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/tripkit-ai/tripkit/pkg/core"
	"github.com/tripkit-ai/tripkit/pkg/core/types"
)

// sampleItinerary is a ready-made itinerary for trying the concierge
// without pasting a real one.
const sampleItinerary = `Trip: Three Days in Paris

Day 1: Arrival & Le Marais
- Check in at Hotel Le Galant, Rue de Rivoli. Late checkout pre-arranged.
- Afternoon walking tour of Le Marais: Place des Vosges, Musee Picasso.
- Dinner at Chez Janou (reservation 19:30).

Day 2: Museums & the Seine
- Morning at the Louvre (skip-the-line entry 09:00).
- Lunch near the Tuileries.
- Evening Seine river cruise, departs Pont de l'Alma 20:00.

Day 3: Montmartre & Departure
- Breakfast at a cafe below Sacre-Coeur, then the Dali museum.
- Optional: Paris Catacombs Tour in the afternoon.
- Transfer to CDG, flight departs 21:15.`

const setupMenu = `How would you like to provide the itinerary?
  1) paste it
  2) load a plain-text file
  3) use the sample Paris itinerary
  4) extract it from a URL
  5) pick a package from a travel agency website`

// runSetup collects the itinerary and client name until the pair is ready
// to anchor a session. Preset values from flags skip the matching prompts.
func runSetup(ctx context.Context, in *bufio.Scanner, out, errOut io.Writer, extractor core.ExtractionBackend, preset types.ItineraryContext) (types.ItineraryContext, error) {
	it := preset
	for !it.Ready() {
		if strings.TrimSpace(it.Content) == "" {
			content, err := promptItinerary(ctx, in, out, errOut, extractor)
			if err != nil {
				return types.ItineraryContext{}, err
			}
			it.Content = content
		}
		if len(strings.TrimSpace(it.Content)) <= types.MinItineraryLength {
			fmt.Fprintln(errOut, "that itinerary is too short to work with; let's try again")
			it.Content = ""
			continue
		}
		if strings.TrimSpace(it.ClientName) == "" {
			name, err := promptLine(in, out, "Client name: ")
			if err != nil {
				return types.ItineraryContext{}, err
			}
			it.ClientName = name
		}
	}
	return it, nil
}

func promptItinerary(ctx context.Context, in *bufio.Scanner, out, errOut io.Writer, extractor core.ExtractionBackend) (string, error) {
	for {
		fmt.Fprintln(out, setupMenu)
		choice, err := promptLine(in, out, "choice [1-5]: ")
		if err != nil {
			return "", err
		}

		var content string
		switch choice {
		case "1":
			content, err = readPasted(in, out)
		case "2":
			content, err = readFromFile(in, out)
		case "3":
			return sampleItinerary, nil
		case "4":
			content, err = extractFromURL(ctx, in, out, extractor)
		case "5":
			content, err = pickPackage(ctx, in, out, extractor)
		default:
			fmt.Fprintln(errOut, "pick a number between 1 and 5")
			continue
		}

		if err != nil {
			if errors.Is(err, io.EOF) || !core.IsRecoverable(err) {
				return "", err
			}
			fmt.Fprintf(errOut, "%v\n", err)
			continue
		}
		return content, nil
	}
}

func readPasted(in *bufio.Scanner, out io.Writer) (string, error) {
	fmt.Fprintln(out, "Paste the itinerary, then a single '.' on its own line:")
	var b strings.Builder
	for in.Scan() {
		line := in.Text()
		if strings.TrimSpace(line) == "." {
			return b.String(), nil
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if err := in.Err(); err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return b.String(), nil
}

func readFromFile(in *bufio.Scanner, out io.Writer) (string, error) {
	path, err := promptLine(in, out, "file path: ")
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", core.NewExtractionError("read itinerary file", err)
	}
	return string(data), nil
}

func extractFromURL(ctx context.Context, in *bufio.Scanner, out io.Writer, extractor core.ExtractionBackend) (string, error) {
	rawURL, err := promptLine(in, out, "itinerary URL: ")
	if err != nil {
		return "", err
	}
	fmt.Fprintln(out, "reading the page...")
	return extractor.ExtractItinerary(ctx, rawURL)
}

func pickPackage(ctx context.Context, in *bufio.Scanner, out io.Writer, extractor core.ExtractionBackend) (string, error) {
	rawURL, err := promptLine(in, out, "agency website URL: ")
	if err != nil {
		return "", err
	}
	fmt.Fprintln(out, "researching the site, this can take a minute...")

	packages, err := extractor.ExtractPackages(ctx, rawURL)
	if err != nil {
		return "", err
	}

	fmt.Fprintf(out, "found %d packages:\n", len(packages))
	for i, pkg := range packages {
		fmt.Fprintf(out, "  %d) %s — %s\n", i+1, pkg.Title, pkg.Description)
	}

	for {
		choice, err := promptLine(in, out, fmt.Sprintf("pick a package [1-%d]: ", len(packages)))
		if err != nil {
			return "", err
		}
		n, err := strconv.Atoi(choice)
		if err != nil || n < 1 || n > len(packages) {
			fmt.Fprintln(out, "not a valid package number")
			continue
		}
		return packages[n-1].FullItinerary, nil
	}
}

func promptLine(in *bufio.Scanner, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	if !in.Scan() {
		if err := in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", io.EOF
	}
	return strings.TrimSpace(in.Text()), nil
}
