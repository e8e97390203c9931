package i18n

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "group" or "rule").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "conflicting_kind":
			return "フィールド種別の指定が矛盾しています"
		case "duplicate_field":
			return "フィールドが重複して宣言されています"
		case "duplicate_group":
			return "グループが重複して宣言されています"
		case "duplicate_member":
			return "フィールドは既にこのグループに属しています"
		case "unknown_group":
			return "未宣言のグループです"
		case "never_satisfiable":
			return "グループの条件を満たすことができません"
		case "group_forbids_all":
			return "グループの条件がメンバーの設定を妨げています"
		case "group_no_effect":
			return "グループの条件に効果がありません"
		case "all_mandatory_equivalent":
			return "全メンバーを必須にするのと等価です"
		case "unknown_field":
			return "未宣言のフィールドです"
		case "skipped_field":
			return "スキップされたフィールドです"
		case "required":
			return "必須フィールドが不足しています"
		case "group_cardinality":
			return "グループの個数条件を満たしていません"
		case "parse_error":
			return "解析エラー"
		}
	default: // "en"
		switch code {
		case "conflicting_kind":
			return "conflicting kind markers"
		case "duplicate_field":
			return "duplicate field declaration"
		case "duplicate_group":
			return "duplicate group declaration"
		case "duplicate_member":
			return "field already associated with group"
		case "unknown_group":
			return "unknown group"
		case "never_satisfiable":
			return "group can never be satisfied"
		case "group_forbids_all":
			return "group prevents members from being set"
		case "group_no_effect":
			return "group has no effect"
		case "all_mandatory_equivalent":
			return "equivalent to all members mandatory"
		case "unknown_field":
			return "unknown field"
		case "skipped_field":
			return "field is skipped"
		case "required":
			return "required field missing"
		case "group_cardinality":
			return "group cardinality not met"
		case "parse_error":
			return "parse error"
		}
	}
	return code
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
