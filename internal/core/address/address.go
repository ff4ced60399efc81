// Package address reconciles the inconsistent seat fields returned by the
// registry into one postal address
//
// The registry populates a different subset of fields for every subject:
// street names are missing for villages, Prague seats carry borough names
// instead of towns, and some historical entries only have one free-text
// line. Reconcile applies the precedence rules below; they are deliberate
// and match observed registry data, so resist the urge to simplify them
package address

import (
	"regexp"
	"strings"
)

// Candidate is the bag of raw optional seat fields pulled from one payload
// It only lives for a single Reconcile call and is never persisted
type Candidate struct {
	Street            string // nazevUlice
	TownPart          string // nazevCastiObce
	Town              string // nazevObce
	HouseNumber       string // cisloDomovni
	DescriptiveNumber string // cisloDoAdresy
	OrientationNumber string // cisloOrientacni
	OrientationLetter string // cisloOrientacniPismeno
	BoroughPart       string // nazevMestskeCastiObvodu
	Borough           string // nazevMestskehoObvodu
	Zip               string // psc
	ZipText           string // pscTxt
	FreeText          string // textovaAdresa, last-resort fallback only
}

// Address is the reconciled postal address
type Address struct {
	Street            string
	HouseNumber       string
	OrientationNumber string
	Town              string
	Zip               string
}

// Free-text fallback patterns. Quantifiers are lazy on purpose: the source
// format is "Town, Street, PSČ 110 00, okres ..." and greedy matching would
// swallow the following clauses
var (
	freeTextFull = regexp.MustCompile(`([a-zA-ZěščřžýáíéĚŠČŘŽÝÁÍÉ ]+?), (.*?), PSČ ([0-9 ]+?), `)
	freeTextZip  = regexp.MustCompile(`([0-9 ]+?) ([a-zA-ZěščřžýáíéĚŠČŘŽÝÁÍÉ 0-9-]+?), `)
)

// Reconcile produces the final address for a candidate. Pure function,
// applying it twice to the same candidate yields the same result
func Reconcile(c Candidate) Address {
	var a Address

	// street: street proper, else part of town, else municipality
	a.Street = c.Street
	if a.Street == "" {
		a.Street = c.TownPart
	}
	if a.Street == "" {
		a.Street = c.Town
	}

	// house number: street-addressed, else descriptive/registration
	a.HouseNumber = c.HouseNumber
	if a.HouseNumber == "" {
		a.HouseNumber = c.DescriptiveNumber
	}

	// orientation number carries its letter suffix when one exists
	a.OrientationNumber = c.OrientationNumber + c.OrientationLetter

	a.Town = reconcileTown(c)

	// zip: structured field first, then its text variant, digits only
	zip := c.Zip
	if zip == "" {
		zip = c.ZipText
	}
	a.Zip = strings.ReplaceAll(zip, " ", "")

	if c.FreeText != "" && a.Zip == "" && a.Town == "" && strings.TrimSpace(a.Street) == "" {
		a = reconcileFreeText(c.FreeText, a)
	}

	return a
}

// reconcileTown handles the general municipality/part-of-town merging and
// the Prague borough naming special case
func reconcileTown(c Candidate) string {
	town := c.Town

	if town == "Praha" {
		if c.BoroughPart != "" {
			town = c.BoroughPart
			// hyphenated borough parts ("Praha 5-Smíchov") defer to the
			// broader borough name when the registry provides one
			if strings.Contains(town, "-") && c.Borough != "" {
				town = c.Borough
			}
			if c.TownPart != "" && !strings.Contains(town, c.TownPart) {
				town += " - " + c.TownPart
			}
			return town
		}
		if c.Borough != "" {
			return c.Borough
		}
		return town
	}

	if c.TownPart != "" && c.TownPart != town {
		switch {
		case strings.HasPrefix(c.TownPart, town):
			// part of town is the more specific name, it wins
			town = c.TownPart
		case strings.Contains(town, c.TownPart):
			// municipality already names the part, keep it
		default:
			town += " - " + c.TownPart
		}
	}
	return town
}

// reconcileFreeText parses the consolidated one-line address. Two formats
// exist in the wild: "Town, Street, PSČ 123 45, ..." and "123 45 Street, ..."
// The second format carries no separate town, the street doubles as the
// town there. That mirrors upstream data entry and is kept as is
func reconcileFreeText(text string, a Address) Address {
	if m := freeTextFull.FindStringSubmatch(text); m != nil {
		a.Town = m[1]
		a.Street = m[2]
		a.Zip = strings.ReplaceAll(m[3], " ", "")
		return a
	}
	if m := freeTextZip.FindStringSubmatch(text); m != nil {
		a.Street = m[2]
		a.Town = m[2]
		a.Zip = strings.ReplaceAll(m[1], " ", "")
	}
	return a
}
