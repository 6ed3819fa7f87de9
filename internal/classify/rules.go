package classify

import "strings"

// Predicate decides whether a rule applies to lower-cased problem text.
type Predicate struct {
	desc  string
	match func(text string) bool
}

// Match reports whether the predicate accepts text. text must already be lower-cased.
func (p Predicate) Match(text string) bool {
	return p.match != nil && p.match(text)
}

// String renders the predicate in the form used by the rules listing.
func (p Predicate) String() string {
	return p.desc
}

// anyOf matches when text contains at least one keyword.
func anyOf(keywords ...string) Predicate {
	quoted := make([]string, len(keywords))
	for i, kw := range keywords {
		quoted[i] = `"` + kw + `"`
	}
	desc := strings.Join(quoted, " | ")
	if len(keywords) > 1 {
		desc = "(" + desc + ")"
	}
	return Predicate{
		desc: desc,
		match: func(text string) bool {
			for _, kw := range keywords {
				if strings.Contains(text, kw) {
					return true
				}
			}
			return false
		},
	}
}

// allOf matches when every predicate matches.
func allOf(preds ...Predicate) Predicate {
	parts := make([]string, len(preds))
	for i, p := range preds {
		parts[i] = p.desc
	}
	return Predicate{
		desc: strings.Join(parts, " & "),
		match: func(text string) bool {
			for _, p := range preds {
				if !p.Match(text) {
					return false
				}
			}
			return true
		},
	}
}

// Rule pairs a predicate with the content shown when it wins.
type Rule struct {
	Name     string
	When     Predicate
	Causes   []string
	Parts    []string
	FixSteps []string
}

// rules is evaluated top to bottom; the first match wins.
var rules = []Rule{
	{
		Name:     "no-start",
		When:     anyOf("won't start", "wont start", "no start"),
		Causes:   []string{"Weak or dead battery", "Corroded/loose battery terminals", "Failed starter motor or solenoid", "Faulty ignition switch", "Immobilizer/security issue"},
		Parts:    []string{"Replacement battery", "Battery terminal cleaning kit", "Starter motor", "OBD2 scanner"},
		FixSteps: []string{"Measure battery voltage (~12.6V off).", "Clean/tighten terminals; try jump-start.", "If single click heard, suspect starter/solenoid.", "Scan for codes; rule out immobilizer.", "Replace failed component; verify charging."},
	},
	{
		Name:     "alternator",
		When:     anyOf("alternator"),
		Causes:   []string{"Worn brushes or regulator", "Loose/slipping belt", "Poor ground/corroded wiring", "Battery near end-of-life"},
		Parts:    []string{"Alternator (reman/new)", "Serpentine belt", "Digital multimeter", "Battery charger/maintainer"},
		FixSteps: []string{"Test ~13.8–14.6V at idle.", "Inspect belt; replace if glazed/cracked.", "Check grounds/wiring for corrosion.", "Replace alternator if low/erratic output."},
	},
	{
		Name:     "rough-idle",
		When:     anyOf("rough idle"),
		Causes:   []string{"Vacuum leak", "Dirty throttle body/IAC", "Fouled plugs/weak coils", "Clogged MAF sensor"},
		Parts:    []string{"Vacuum hose kit", "Throttle body cleaner", "Spark plugs (OEM)", "MAF sensor cleaner"},
		FixSteps: []string{"Inspect vacuum lines; listen for hiss.", "Clean throttle body and idle passages.", "Replace worn plugs; test coils.", "Clean MAF; clear codes; re-learn idle."},
	},
	{
		// "ac" is a bare substring and also fires inside words like "acceleration".
		Name:     "air-conditioning",
		When:     anyOf("ac", "a/c", "air conditioning"),
		Causes:   []string{"Low refrigerant/leak", "Failed compressor clutch", "Clogged cabin filter", "Faulty condenser fan"},
		Parts:    []string{"UV dye + recharge kit (if legal)", "Cabin air filter", "Condenser fan", "Leak detection kit"},
		FixSteps: []string{"Replace cabin filter if dirty.", "Verify clutch engagement; check fuses/relays.", "Ensure condenser fan runs with AC.", "Leak-test; recharge to spec."},
	},
	{
		Name:     "overheating",
		When:     anyOf("overheating"),
		Causes:   []string{"Low coolant/leak", "Thermostat stuck", "Radiator fan inoperative", "Clogged radiator"},
		Parts:    []string{"Thermostat", "Radiator fan assembly", "Coolant + pressure tester", "Radiator flush kit"},
		FixSteps: []string{"Check coolant level; pressure test.", "Verify fan operation; inspect relays.", "Replace stuck thermostat.", "Flush clogged radiator; verify cap pressure."},
	},
	{
		Name:     "abs",
		When:     anyOf("abs light", "abs"),
		Causes:   []string{"Wheel speed sensor", "Damaged tone ring", "Wiring harness damage", "ABS module fault"},
		Parts:    []string{"Wheel speed sensor", "OBD2 scanner (ABS)", "Tone ring", "Contact cleaner"},
		FixSteps: []string{"Scan for ABS codes to identify wheel.", "Inspect sensor wiring/connectors.", "Check tone ring for cracks/rust.", "Replace sensor; clear codes."},
	},
	{
		Name:     "transmission",
		When:     anyOf("transmission", "slipping", "rough shift"),
		Causes:   []string{"Low/dirty fluid", "Clogged filter", "Valve body wear", "TCM software issue"},
		Parts:    []string{"ATF + filter kit", "OBD2 scanner", "Gasket kit", "Service manual"},
		FixSteps: []string{"Check fluid level/condition.", "Service fluid/filter if due.", "Scan TCM; perform updates/relearn.", "If persists, seek pro diagnosis."},
	},
	{
		Name:     "oil-leak",
		When:     anyOf("oil leak", "valve cover"),
		Causes:   []string{"Aged valve cover gasket", "PCV overpressure", "Warped cover/loose fasteners", "Cam seal seepage"},
		Parts:    []string{"Valve cover gasket set", "RTV sealant (spec)", "PCV valve", "Brake cleaner"},
		FixSteps: []string{"Clean area; verify source.", "Replace gasket; torque to spec.", "Replace PCV if clogged.", "Recheck after drive cycle."},
	},
	{
		Name:     "catalytic-converter",
		When:     anyOf("p0420", "catalytic"),
		Causes:   []string{"Aged catalytic converter", "Exhaust leak pre-cat", "O2 sensor slow response", "Misfire damaging catalyst"},
		Parts:    []string{"Catalytic converter", "Upstream O2 sensor", "Exhaust gaskets", "OBD2 scanner"},
		FixSteps: []string{"Check for leaks; inspect O2 readings.", "Fix misfires first.", "Replace failing O2 if lazy.", "Replace cat if efficiency remains low."},
	},
	{
		Name:     "evap",
		When:     anyOf("p0442", "evap"),
		Causes:   []string{"Loose/faulty gas cap", "Small EVAP leak (hoses)", "Purge/vent valve fault", "Cracked charcoal canister"},
		Parts:    []string{"Gas cap (OEM)", "EVAP hose", "Purge valve", "Smoke tester (shop)"},
		FixSteps: []string{"Tighten/replace gas cap.", "Inspect EVAP lines for cracks.", "Test purge/vent solenoids.", "Clear codes; run EVAP monitor."},
	},
	{
		Name:     "wheel-bearing",
		When:     anyOf("wheel bearing", "humming"),
		Causes:   []string{"Worn wheel bearing", "Uneven tire wear", "Bent rim", "CV joint wear"},
		Parts:    []string{"Wheel hub/bearing", "Torque wrench", "Jack stands", "Axle nut socket"},
		FixSteps: []string{"Confirm noise changes with steering load.", "Check tire wear and wheel balance.", "Replace hub assembly if play/noise present.", "Torque to spec; road test."},
	},
	{
		Name:     "brake-squeal",
		When:     allOf(anyOf("brake"), anyOf("squeal")),
		Causes:   []string{"Worn pads", "Glazed rotors", "Missing shims", "Sticking caliper"},
		Parts:    []string{"Brake pads", "Rotors", "Shim kit", "High-temp grease"},
		FixSteps: []string{"Measure pad thickness; replace if low.", "Resurface/replace rotors if glazed.", "Install shims; lube slide pins.", "Bed-in pads per instructions."},
	},
	{
		Name:     "tpms",
		When:     anyOf("tpms", "tire pressure"),
		Causes:   []string{"Low tire", "Dead TPMS sensor battery", "Sensor not learned", "Damaged valve stem"},
		Parts:    []string{"TPMS sensor", "Valve stem kit", "TPMS relearn tool", "Tire inflator"},
		FixSteps: []string{"Set pressures to door placard.", "Relearn sensors if needed.", "Replace dead sensors.", "Check stems for leaks."},
	},
	{
		Name:     "key-fob",
		When:     anyOf("key fob", "remote"),
		Causes:   []string{"Dead fob battery", "Desync with BCM", "Button failure", "Receiver issue"},
		Parts:    []string{"CR2032 battery", "Replacement fob", "OBD programmer (some makes)", "Contact cleaner"},
		FixSteps: []string{"Replace battery.", "Reprogram/initialize per manual.", "Clean contacts.", "Replace fob if unresponsive."},
	},
	{
		Name:     "power-window",
		When:     allOf(anyOf("window"), anyOf("won't", "stuck", "wont")),
		Causes:   []string{"Failed window regulator", "Switch fault", "Blown fuse", "Broken window track"},
		Parts:    []string{"Window regulator", "Switch panel", "Fuse set", "Plastic trim tools"},
		FixSteps: []string{"Check fuses first.", "Test switch output.", "Inspect regulator/motor operation.", "Replace failed component."},
	},
}

// fallback is returned when no rule matches.
var fallback = Rule{
	Name:     "general",
	When:     Predicate{desc: "(no other rule matched)"},
	Causes:   []string{"Wear item related to symptom", "Corroded/loose wiring/connectors", "Sensor out of range", "ECU codes indicate subsystem"},
	Parts:    []string{"OBD2 scanner", "Relevant sensor", "Basic hand tools", "Safety gear"},
	FixSteps: []string{"Scan for codes + freeze frame.", "Inspect/connectors/grounds.", "Test components vs manual specs.", "Replace failed part; clear codes."},
}

// diagnosticChecklist is shared by every bundle.
var diagnosticChecklist = []string{
	"Scan for OBD-II codes to narrow subsystem.",
	"Check fuses/relays related to the symptom.",
	"Quick voltage/continuity tests as applicable.",
	"Inspect for leaks/damage/loose connectors.",
	"Decide DIY vs shop quote based on time/cost.",
}

// relatedTemplates are appended to the vehicle name to build related queries.
var relatedTemplates = []string{
	"check engine light on",
	"battery light flickers",
	"stalls at idle",
	"vibration at highway speed",
}
