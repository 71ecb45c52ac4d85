// Package localize translates "day month year" dates between English and Welsh.
//
// Only the month token is translated; day and year pass through unchanged.
// The default dictionary covers the twelve Gregorian months and works in both
// directions:
//
//	cy, err := localize.Localize("18 August 2025") // "18 Awst 2025"
//	en, err := localize.Delocalize("18 Awst 2025") // "18 August 2025"
//
// LocalizeContext applies the transform to every variable whose name ends with
// DateSuffix and publishes the result under the same name plus WelshSuffix:
//
//	vars := map[string]string{"deadline_date": "18 August 2025"}
//	_ = localize.LocalizeContext(vars)
//	// vars["deadline_date_cy"] == "18 Awst 2025"
//
// A custom dictionary can be loaded from YAML:
//
//	months:
//	  January: Ionawr
//	  February: Chwefror
//
// and passed to New with WithDictionary.
package localize
