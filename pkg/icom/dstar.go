package icom

import (
	"github.com/dougsko/radio2csv/pkg/radio"
)

// dstarLayout collects the accessors of a D-STAR model that uses the common
// column set.
type dstarLayout struct {
	valid    func(ch int) bool
	setValid func(ch int, v bool)

	rxFreq      radio.Accessor
	split       radio.Accessor
	txOffset    radio.Accessor
	step        radio.Accessor
	modulation  radio.Accessor
	name        radio.Text
	skip        radio.Accessor
	fmSquelch   radio.Accessor
	ctcssEncode radio.Accessor
	ctcssDecode radio.Accessor
	dcs         radio.Accessor
	dcsReverse  radio.Accessor
	dvSquelch   radio.Accessor
	dvCsql      radio.Accessor
	yourCall    radio.Call
	rpt1Call    radio.Call
	rpt2Call    radio.Call
	bankGroup   radio.Accessor
	bankChannel radio.Accessor

	steps       []float64
	modulations []string
	fmSquelches []string
	unassigned  uint32
}

func (d dstarLayout) fields(offset int) []radio.Field {
	return []radio.Field{
		radio.ValidField("CH No", offset, d.valid, d.setValid),
		radio.FrequencyField("Frequency", d.rxFreq),
		radio.EnumField("Dup", radio.Splits, d.split),
		radio.FrequencyField("Offset", d.txOffset),
		radio.StepField("TS", d.steps, d.step),
		radio.EnumField("Mode", d.modulations, d.modulation),
		radio.NameField("Name", d.name),
		radio.EnumField("SKIP", radio.SkipModes, d.skip),
		radio.EnumField("TONE", d.fmSquelches, d.fmSquelch),
		radio.CtcssField("Repeater Tone", d.ctcssEncode),
		radio.CtcssField("TSQL Frequency", d.ctcssDecode),
		radio.DcsField("DTCS Code", d.dcs),
		radio.EnumField("DTCS Polarity", radio.DcsReverses, d.dcsReverse),
		radio.EnumField("DV SQL", radio.DvSquelches, d.dvSquelch),
		radio.DvCsqlField("DV CSQL Code", d.dvCsql),
		radio.RoutingField("Your Call Sign", d.yourCall),
		radio.RoutingField("RPT1 Call Sign", d.rpt1Call),
		radio.RoutingField("RPT2 Call Sign", d.rpt2Call),
		radio.BankGroupField("Bank Group", d.unassigned, d.bankGroup),
		radio.BankChannelField("Bank Channel", d.bankChannel),
	}
}
