// Package views renders the dataset pages as markdown with numbered links.
package views

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

const na = "NA"

// Concentration renders a concentration with two significant digits.
func Concentration(v *float64) string {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return na
	}
	return strconv.FormatFloat(sig2(*v), 'f', -1, 64)
}

// CopyNumber renders a copy number with two significant digits, switching
// to "a x 10^b" from 1000 up.
func CopyNumber(v *float64) string {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return na
	}
	x := sig2(*v)
	if x < 1000 {
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	exp := int(math.Floor(math.Log10(x)))
	mant := x / math.Pow(10, float64(exp))
	return fmt.Sprintf("%s x 10^%d", strconv.FormatFloat(mant, 'f', 1, 64), exp)
}

// Fixed renders v with a fixed number of decimals.
func Fixed(v *float64, decimals int) string {
	if v == nil || math.IsNaN(*v) {
		return na
	}
	return strconv.FormatFloat(*v, 'f', decimals, 64)
}

// Percent renders a fraction as a rounded percentage.
func Percent(v *float64) string {
	if v == nil || math.IsNaN(*v) {
		return na
	}
	return strconv.Itoa(int(math.Round(*v*100))) + "%"
}

func sig2(v float64) float64 {
	f, err := strconv.ParseFloat(strconv.FormatFloat(v, 'g', 2, 64), 64)
	if err != nil {
		return v
	}
	return f
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return na
	}
	return s
}

// Category turns an annotation name into a label: "nucleolus_gc" ->
// "nucleolus gc". Graded suffixes ("_1".."_3") are kept as "(grade 2)".
func Category(name string) string {
	base, grade := splitGrade(name)
	label := strings.ReplaceAll(base, "_", " ")
	if grade != "" {
		label += " (grade " + grade + ")"
	}
	return label
}

// splitGrade separates "golgi_2" into "golgi" and "2".
func splitGrade(name string) (base, grade string) {
	if n := len(name); n > 2 && name[n-2] == '_' && name[n-1] >= '1' && name[n-1] <= '3' {
		return name[:n-2], name[n-1:]
	}
	return name, ""
}

// cell escapes text for a markdown table cell.
func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}
