package captionquery

import (
	"sort"
	"strings"
)

// UnknownLanguage 是未标注语言的占位代码，搜索时视作"任意"。
const UnknownLanguage = "unk"

// AnyLanguage 表示不限制语言。
const AnyLanguage = "any"

// Languages 是受支持的语言代码表：基础代码（如 en）与地区变体（如 en_US）。
var Languages = map[string]string{
	"unk":    "Unknown",
	"af":     "Afrikaans",
	"am":     "Amharic",
	"ar":     "Arabic",
	"ar_EG":  "Arabic (Egypt)",
	"ar_SA":  "Arabic (Saudi Arabia)",
	"az":     "Azerbaijani",
	"be":     "Belarusian",
	"bg":     "Bulgarian",
	"bn":     "Bengali",
	"bs":     "Bosnian",
	"ca":     "Catalan",
	"cs":     "Czech",
	"cy":     "Welsh",
	"da":     "Danish",
	"de":     "German",
	"de_AT":  "German (Austria)",
	"de_CH":  "German (Switzerland)",
	"el":     "Greek",
	"en":     "English",
	"en_AU":  "English (Australia)",
	"en_CA":  "English (Canada)",
	"en_GB":  "English (United Kingdom)",
	"en_IN":  "English (India)",
	"en_US":  "English (United States)",
	"eo":     "Esperanto",
	"es":     "Spanish",
	"es_419": "Spanish (Latin America)",
	"es_ES":  "Spanish (Spain)",
	"es_MX":  "Spanish (Mexico)",
	"et":     "Estonian",
	"eu":     "Basque",
	"fa":     "Persian",
	"fi":     "Finnish",
	"fil":    "Filipino",
	"fr":     "French",
	"fr_CA":  "French (Canada)",
	"fr_FR":  "French (France)",
	"ga":     "Irish",
	"gl":     "Galician",
	"gu":     "Gujarati",
	"he":     "Hebrew",
	"hi":     "Hindi",
	"hr":     "Croatian",
	"hu":     "Hungarian",
	"hy":     "Armenian",
	"id":     "Indonesian",
	"is":     "Icelandic",
	"it":     "Italian",
	"ja":     "Japanese",
	"ka":     "Georgian",
	"kk":     "Kazakh",
	"km":     "Khmer",
	"kn":     "Kannada",
	"ko":     "Korean",
	"lo":     "Lao",
	"lt":     "Lithuanian",
	"lv":     "Latvian",
	"mk":     "Macedonian",
	"ml":     "Malayalam",
	"mn":     "Mongolian",
	"mr":     "Marathi",
	"ms":     "Malay",
	"my":     "Burmese",
	"ne":     "Nepali",
	"nl":     "Dutch",
	"nl_BE":  "Dutch (Belgium)",
	"no":     "Norwegian",
	"pa":     "Punjabi",
	"pl":     "Polish",
	"pt":     "Portuguese",
	"pt_BR":  "Portuguese (Brazil)",
	"pt_PT":  "Portuguese (Portugal)",
	"ro":     "Romanian",
	"ru":     "Russian",
	"si":     "Sinhala",
	"sk":     "Slovak",
	"sl":     "Slovenian",
	"sq":     "Albanian",
	"sr":     "Serbian",
	"sv":     "Swedish",
	"sw":     "Swahili",
	"ta":     "Tamil",
	"te":     "Telugu",
	"th":     "Thai",
	"tl":     "Tagalog",
	"tr":     "Turkish",
	"uk":     "Ukrainian",
	"ur":     "Urdu",
	"uz":     "Uzbek",
	"vi":     "Vietnamese",
	"yue":    "Cantonese",
	"zh":     "Chinese",
	"zh_CN":  "Chinese (Simplified)",
	"zh_HK":  "Chinese (Hong Kong)",
	"zh_TW":  "Chinese (Traditional)",
	"zu":     "Zulu",
}

// BaseLanguageCode 返回地区变体的基础代码，如 en_US → en。
func BaseLanguageCode(code string) string {
	base, _, _ := strings.Cut(code, "_")
	return base
}

// RelatedLanguageCodes 返回与 code 同一基础语言的全部已知代码（含基础代码本身），按字典序。
func RelatedLanguageCodes(code string) []string {
	base := BaseLanguageCode(code)
	if base == "" {
		return nil
	}
	related := make([]string, 0, 4)
	for key := range Languages {
		if key == base || strings.HasPrefix(key, base+"_") {
			related = append(related, key)
		}
	}
	sort.Strings(related)
	return related
}

// IsAnyLanguage 判断语言参数是否表示不限制。
func IsAnyLanguage(code string) bool {
	return code == "" || code == AnyLanguage || code == UnknownLanguage
}
