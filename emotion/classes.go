package emotion

import "strings"

// Class is one label of a fixed, ordered enumeration.
type Class string

const (
	Angry    Class = "angry"
	Disgust  Class = "disgust"
	Fear     Class = "fear"
	Happy    Class = "happy"
	Neutral  Class = "neutral"
	Sad      Class = "sad"
	Surprise Class = "surprise"

	Positive Class = "positive"
	Negative Class = "negative"
)

// Order is significant: it is the chart axis and the index of every vector.
var (
	FaceClasses = []Class{Angry, Disgust, Fear, Happy, Neutral, Sad, Surprise}
	TextClasses = []Class{Positive, Negative, Neutral}
)

// Title returns the display form, e.g. "Happy".
func (c Class) Title() string {
	if c == "" {
		return ""
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

// Index returns the position of c in classes, or -1.
func Index(classes []Class, c Class) int {
	for i, k := range classes {
		if k == c {
			return i
		}
	}
	return -1
}

// Parse matches a backend label case-insensitively against classes.
func Parse(classes []Class, label string) (Class, bool) {
	c := Class(strings.ToLower(strings.TrimSpace(label)))
	if Index(classes, c) < 0 {
		return "", false
	}
	return c, true
}
