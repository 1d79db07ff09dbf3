// Copyright © 2026 The Elm-Fluent Authors under an MIT-style license.

package compiler

import (
	"github.com/elm-fluent/elm-fluent/elm"
	"github.com/elm-fluent/elm-fluent/types"
)

// The Elm modules generated code calls into: the elm-fluent runtime
// support package and the Intl bindings it builds on. Only the names
// and types the compiler works with are declared here.
var (
	localeModule         = elm.NewModule("Intl.Locale")
	numberFormatModule   = elm.NewModule("Intl.NumberFormat")
	dateTimeFormatModule = elm.NewModule("Intl.DateTimeFormat")
	pluralRulesModule    = elm.NewModule("Intl.PluralRules")
	timeZoneModule       = elm.NewModule("Intl.TimeZone")
	dateModule           = elm.NewModule("Date")
	fluentModule         = elm.NewModule("Fluent")
	stringModule         = elm.NewModule("String")
)

var (
	localeType       = types.NewNamed("Locale", localeModule)
	fluentNumberType = types.NewNamed("FluentNumber number", fluentModule)
	fluentDateType   = types.NewNamed("FluentDate", fluentModule)

	currencyDisplayType = types.NewNamed("CurrencyDisplay", numberFormatModule)
	nameStyleType       = types.NewNamed("NameStyle", dateTimeFormatModule)
	numberStyleType     = types.NewNamed("NumberStyle", dateTimeFormatModule)
	monthStyleType      = types.NewNamed("MonthStyle", dateTimeFormatModule)
	timeZoneStyleType   = types.NewNamed("TimeZoneStyle", dateTimeFormatModule)
)

func init() {
	maybeBool := elm.MaybeType.Specialize(map[string]types.Type{"a": elm.BoolType})
	maybeInt := elm.MaybeType.Specialize(map[string]types.Type{"a": elm.IntType})

	localeModule.ReserveName("toLanguageTag", types.NewFunc(localeType, elm.StringType))

	timeZoneType := types.NewNamed("TimeZone", timeZoneModule)
	timeZoneModule.ReserveName("TimeZone", types.NewFunc(elm.StringType, timeZoneType))
	maybeTimeZone := elm.MaybeType.Specialize(map[string]types.Type{"a": timeZoneType})

	dateType := types.NewNamed("Date", dateModule)

	pluralRulesType := types.NewNamed("PluralRules", pluralRulesModule)
	pluralRulesModule.ReserveName("fromLocale", types.NewFunc(localeType, pluralRulesType))
	pluralRulesModule.ReserveName("select",
		types.FuncOf([]types.Type{pluralRulesType, elm.NumberType}, elm.StringType))

	numberFormatType := types.NewNamed("NumberFormat", numberFormatModule)
	for _, ctor := range []string{"CurrencyCode", "CurrencyName", "CurrencySymbol"} {
		numberFormatModule.ReserveName(ctor, currencyDisplayType)
	}
	numberFormatOptions := types.NewFixedRecord(map[string]types.Type{
		"locale":                   localeType,
		"currencyDisplay":          currencyDisplayType,
		"useGrouping":              elm.BoolType,
		"minimumIntegerDigits":     maybeInt,
		"minimumFractionDigits":    maybeInt,
		"maximumFractionDigits":    maybeInt,
		"minimumSignificantDigits": maybeInt,
		"maximumSignificantDigits": maybeInt,
	})
	numberFormatModule.ReserveName("defaults", numberFormatOptions)
	numberFormatModule.ReserveName("fromLocale", types.NewFunc(localeType, numberFormatType))
	numberFormatModule.ReserveName("fromOptions", types.NewFunc(numberFormatOptions, numberFormatType))
	numberFormatModule.ReserveName("format",
		types.FuncOf([]types.Type{numberFormatType, elm.NumberType}, elm.StringType))

	for _, ctor := range []string{"NarrowName", "ShortName", "LongName", "OmitName"} {
		dateTimeFormatModule.ReserveName(ctor, nameStyleType)
	}
	for _, ctor := range []string{"NumericNumber", "TwoDigitNumber", "OmitNumber"} {
		dateTimeFormatModule.ReserveName(ctor, numberStyleType)
	}
	for _, ctor := range []string{"NarrowMonth", "ShortMonth", "LongMonth", "NumericMonth", "TwoDigitMonth", "OmitMonth"} {
		dateTimeFormatModule.ReserveName(ctor, monthStyleType)
	}
	for _, ctor := range []string{"ShortTimeZone", "LongTimeZone", "OmitTimeZone"} {
		dateTimeFormatModule.ReserveName(ctor, timeZoneStyleType)
	}
	dateTimeFormatOptions := types.NewFixedRecord(map[string]types.Type{
		"locale":       localeType,
		"timeZone":     maybeTimeZone,
		"hour12":       maybeBool,
		"weekday":      nameStyleType,
		"era":          nameStyleType,
		"year":         numberStyleType,
		"month":        monthStyleType,
		"day":          numberStyleType,
		"hour":         numberStyleType,
		"minute":       numberStyleType,
		"second":       numberStyleType,
		"timeZoneName": timeZoneStyleType,
	})

	fluentModule.ReserveName("number", types.NewFunc(elm.NumberType, fluentNumberType))
	fluentModule.ReserveName("formattedNumber",
		types.FuncOf([]types.Type{numberFormatOptions, elm.NumberType}, fluentNumberType))
	fluentModule.ReserveName("reformattedNumber",
		types.FuncOf([]types.Type{numberFormatOptions, fluentNumberType}, fluentNumberType))
	fluentModule.ReserveName("numberFormattingOptions",
		types.NewFunc(fluentNumberType, numberFormatOptions))
	fluentModule.ReserveName("formatNumber",
		types.FuncOf([]types.Type{localeType, fluentNumberType}, elm.StringType))
	fluentModule.ReserveName("numberValue", types.NewFunc(fluentNumberType, elm.NumberType))
	fluentModule.ReserveName("date", types.NewFunc(dateType, fluentDateType))
	fluentModule.ReserveName("formattedDate",
		types.FuncOf([]types.Type{dateTimeFormatOptions, dateType}, fluentDateType))
	fluentModule.ReserveName("reformattedDate",
		types.FuncOf([]types.Type{dateTimeFormatOptions, fluentDateType}, fluentDateType))
	fluentModule.ReserveName("dateFormattingOptions",
		types.NewFunc(fluentDateType, dateTimeFormatOptions))
	fluentModule.ReserveName("formatDate",
		types.FuncOf([]types.Type{localeType, fluentDateType}, elm.StringType))

	stringModule.ReserveName("toLower", types.NewFunc(elm.StringType, elm.StringType))
	elm.AddDefaultModule(stringModule)
}
