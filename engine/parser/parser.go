// Package parser converts command strings into Command structs.
// Intentionally dumb: no NLP, just verb-noun-preposition patterns.
package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nathoo/custodian/engine/errs"
	"github.com/nathoo/custodian/types"
)

// Two-argument surface patterns, checked in this order before generic
// verb/noun splitting. First match wins.
var (
	useWithPattern = regexp.MustCompile(`^use\s+(.+?)\s+(?:with|on)\s+(.+)$`)
	talkToPattern  = regexp.MustCompile(`^(?:talk|speak|chat)\s+to\s+(.+)$`)
	lookAtPattern  = regexp.MustCompile(`^look\s+at\s+(.+)$`)
	giveToPattern  = regexp.MustCompile(`^give\s+(.+?)\s+to\s+(.+)$`)
)

var directions = map[string]string{
	"n":         "north",
	"s":         "south",
	"e":         "east",
	"w":         "west",
	"u":         "up",
	"d":         "down",
	"ne":        "northeast",
	"nw":        "northwest",
	"se":        "southeast",
	"sw":        "southwest",
	"north":     "north",
	"south":     "south",
	"east":      "east",
	"west":      "west",
	"up":        "up",
	"down":      "down",
	"northeast": "northeast",
	"northwest": "northwest",
	"southeast": "southeast",
	"southwest": "southwest",
	"in":        "in",
	"out":       "out",
	"enter":     "in",
	"exit":      "out",
}

// verbTable maps each canonical verb to the words and phrases that mean it.
var verbTable = map[string][]string{
	"look":      {"look", "l"},
	"examine":   {"examine", "x", "inspect", "check", "study", "observe", "search", "look at"},
	"take":      {"take", "get", "grab", "pick up", "pickup", "carry"},
	"drop":      {"drop", "put down", "discard", "leave"},
	"use":       {"use", "apply", "activate"},
	"go":        {"go", "walk", "move", "head", "travel", "run"},
	"inventory": {"inventory", "i", "inv", "items"},
	"talk":      {"talk", "speak", "chat", "ask", "converse", "talk to", "speak to", "chat to"},
	"give":      {"give", "offer", "hand"},
	"open":      {"open", "unlock"},
	"close":     {"close", "shut", "lock"},
	"push":      {"push", "press", "shove"},
	"pull":      {"pull", "tug", "yank", "drag"},
	"read":      {"read", "peruse"},
	"help":      {"help", "h", "?", "commands"},
	"save":      {"save"},
	"load":      {"load", "restore"},
	"quit":      {"quit", "q"},
	"wait":      {"wait", "z"},
}

// verbAliases is the inverted verbTable: alias phrase → canonical verb.
var verbAliases = func() map[string]string {
	m := map[string]string{}
	for canonical, aliases := range verbTable {
		for _, a := range aliases {
			m[a] = canonical
		}
	}
	return m
}()

// Verbs that take no noun; trailing text is passed through as an opaque argument.
var noNounVerbs = map[string]bool{
	"inventory": true,
	"help":      true,
	"save":      true,
	"load":      true,
	"quit":      true,
	"wait":      true,
}

// Verbs that cannot run without a noun, with their prompts.
var nounPrompts = map[string]string{
	"examine": "Examine what?",
	"take":    "Take what?",
	"drop":    "Drop what?",
	"use":     "Use what?",
	"talk":    "Talk to whom?",
	"give":    "Give what?",
	"open":    "Open what?",
	"close":   "Close what?",
	"push":    "Push what?",
	"pull":    "Pull what?",
	"read":    "Read what?",
}

var fillerWords = map[string]bool{
	"the": true, "a": true, "an": true,
	"at": true, "to": true, "on": true, "in": true,
	"my": true, "some": true,
}

// Parse converts a raw command string into a Command.
//
// The returned error is an *errs.Error of KindUserInput. When the error is
// set and Command.Verb is empty the input is unusable; when Verb is set the
// verb's handler is expected to prompt for whatever is missing.
func Parse(input string) (types.Command, error) {
	raw := strings.TrimSpace(input)
	words := strings.Fields(strings.ToLower(raw))
	if len(words) == 0 {
		return types.Command{Raw: raw}, errs.New(errs.KindUserInput, "Please enter a command.")
	}
	text := strings.Join(words, " ")

	if m := useWithPattern.FindStringSubmatch(text); m != nil {
		return types.Command{Verb: "use", Noun: CleanNoun(m[1]), Target: CleanNoun(m[2]), Raw: raw}, nil
	}
	if m := talkToPattern.FindStringSubmatch(text); m != nil {
		return types.Command{Verb: "talk", Noun: CleanNoun(m[1]), Raw: raw}, nil
	}
	if m := lookAtPattern.FindStringSubmatch(text); m != nil {
		return types.Command{Verb: "examine", Noun: CleanNoun(m[1]), Raw: raw}, nil
	}
	if m := giveToPattern.FindStringSubmatch(text); m != nil {
		return types.Command{Verb: "give", Noun: CleanNoun(m[1]), Target: CleanNoun(m[2]), Raw: raw}, nil
	}

	// Bare direction: "n", "north", "out".
	if dir, ok := directions[text]; ok {
		return types.Command{Verb: "go", Noun: dir, Raw: raw}, nil
	}

	verb, rest := matchVerb(words)
	if verb == "" {
		// "north quickly" still means go north.
		if dir, ok := directions[words[0]]; ok {
			return types.Command{Verb: "go", Noun: dir, Raw: raw}, nil
		}
		return types.Command{Raw: raw}, errs.Newf(errs.KindUserInput,
			"I don't understand %q. Type HELP for available commands.", words[0])
	}

	cmd := types.Command{Verb: verb, Raw: raw}
	phrase := strings.Join(rest, " ")

	switch {
	case noNounVerbs[verb]:
		cmd.Noun = phrase
		return cmd, nil

	case verb == "look":
		if phrase != "" {
			cmd.Noun = CleanNoun(phrase)
		}
		return cmd, nil

	case verb == "go":
		return parseGo(cmd, rest)
	}

	cmd.Noun = CleanNoun(phrase)
	if cmd.Noun == "" {
		if prompt, ok := nounPrompts[verb]; ok {
			return cmd, errs.New(errs.KindUserInput, prompt)
		}
	}
	return cmd, nil
}

// parseGo resolves the direction argument of "go". The verb is kept on
// failure so the caller can reprompt.
func parseGo(cmd types.Command, rest []string) (types.Command, error) {
	if len(rest) == 0 {
		return cmd, errs.New(errs.KindUserInput,
			"Go where? Try a direction like NORTH, SOUTH, EAST, or WEST.")
	}
	phrase := strings.Join(rest, " ")
	if dir, ok := directions[phrase]; ok {
		cmd.Noun = dir
		return cmd, nil
	}
	if dir, ok := directions[rest[0]]; ok {
		cmd.Noun = dir
		return cmd, nil
	}
	// "go to the north"
	if dir, ok := directions[CleanNoun(phrase)]; ok {
		cmd.Noun = dir
		return cmd, nil
	}
	cmd.Noun = phrase
	return cmd, errs.New(errs.KindUserInput,
		fmt.Sprintf("%q isn't a direction. Try NORTH, SOUTH, EAST, WEST, UP, DOWN, IN, or OUT.", phrase))
}

// matchVerb finds the canonical verb at the start of words. Two-word
// aliases ("pick up") take precedence over one-word ones.
func matchVerb(words []string) (string, []string) {
	if len(words) >= 2 {
		if v, ok := verbAliases[words[0]+" "+words[1]]; ok {
			return v, words[2:]
		}
	}
	if v, ok := verbAliases[words[0]]; ok {
		return v, words[1:]
	}
	return "", nil
}

// CleanNoun lowercases a noun phrase and strips filler words. If nothing
// would be left, the lowercased phrase is returned unchanged.
func CleanNoun(phrase string) string {
	words := strings.Fields(strings.ToLower(phrase))
	kept := make([]string, 0, len(words))
	for _, w := range words {
		if !fillerWords[w] {
			kept = append(kept, w)
		}
	}
	if len(kept) == 0 {
		return strings.Join(words, " ")
	}
	return strings.Join(kept, " ")
}

// Direction returns the canonical direction for s, or "" if s is not one.
func Direction(s string) string {
	return directions[strings.ToLower(strings.TrimSpace(s))]
}

// IsDirection reports whether s names a direction.
func IsDirection(s string) bool {
	return Direction(s) != ""
}

// HelpText returns the player-facing command reference.
func HelpText() []string {
	return []string{
		"Available commands:",
		"  LOOK (L)                     Examine your surroundings",
		"  LOOK AT / EXAMINE (X) <thing> Look at something closely",
		"  TAKE / GET <item>            Pick up an item",
		"  DROP <item>                  Put down an item",
		"  USE <item>                   Use an item",
		"  USE <item> WITH <thing>      Use an item with something",
		"  GIVE <item> TO <someone>     Offer an item to someone",
		"  INVENTORY (I)                Check what you're carrying",
		"  GO <direction>               Move (or just N/S/E/W/UP/DOWN/IN/OUT)",
		"  TALK TO <someone>            Speak with someone",
		"  OPEN / CLOSE <thing>         Open or close something",
		"  PUSH / PULL <thing>          Push or pull something",
		"  READ <thing>                 Read something",
		"  SAVE / LOAD [1-3]            Save or load your game",
		"  QUIT                         End the game",
	}
}
