package classify

// KeywordRule maps a substring keyword found in a job title to a canonical
// category code.
type KeywordRule struct {
	Keyword  string
	Category string
}

// CategoryKeywords is the ordered keyword table used to classify job titles.
// ORDER MATTERS: more specific strings must come before shorter/overlapping
// ones ("steam generator" before "steamer"), which is why this is a slice
// and not a map. The type itself enforces the ordering.
var CategoryKeywords = []KeywordRule{
	// Coffee machines
	{"full auto", "FAEM"},
	{"fully auto", "FAEM"},
	{"faem", "FAEM"},
	{"floorcare", "FAEM"}, // legacy spelling

	{"semi", "SAEM"},
	{"baristina", "SAEM"},
	{"saem", "SAEM"},

	{"portioned", "Portioned_Espresso"},
	{"pe ", "Portioned_Espresso"}, // "PE " with space to avoid false positives

	// Kitchen appliances
	{"airfryer", "Airfryer"},
	{"air fryer", "Airfryer"},

	{"blender", "Blender"},

	{"juicer", "Juicer_Mixer"},
	{"mixer", "Juicer_Mixer"},
	{"grinder", "Juicer_Mixer"},

	{"cooker", "Cooker_Griller"},
	{"griller", "Cooker_Griller"},

	// Floor care
	{"w&d", "Handstick_WD"}, // "W&D" = Wet & Dry, before plain handstick
	{"wet & dry", "Handstick_WD"},
	{"wet dry", "Handstick_WD"},
	{"wet", "Handstick_WD"}, // "wet" alone also means W&D

	{"handstick", "Handstick_Dry"}, // remaining handstick jobs = Dry variant
	{"hand stick", "Handstick_Dry"},

	{"rvc", "RVC"},
	{"robot", "RVC"},

	// Garment / fabric care
	{"all-in-one", "All_in_One"},
	{"all in one", "All_in_One"},

	{"steam iron", "Steam_Iron"},           // before plain "steam"
	{"steam generator", "Steam_Generator"}, // before "steam gen"
	{"steam gen", "Steam_Generator"},
	{"stand steamer", "Stand_Steamer"}, // before plain "steamer"
	{"stand steam", "Stand_Steamer"},
	{"handheld", "Handheld_Steamer"},
	{"steamer", "Handheld_Steamer"},

	{"dry iron", "Dry_Iron"},
}

// skipWords are segments that never carry a category signal: month names and
// brand/vendor names that show up in every title.
var skipWords = map[string]struct{}{
	"january": {}, "february": {}, "march": {}, "april": {},
	"may": {}, "june": {}, "july": {}, "august": {},
	"september": {}, "october": {}, "november": {}, "december": {},
	"versuni": {}, "roamler": {}, "philips": {},
}
