package categories

import "github.com/JonMunkholm/filety/internal/core"

func init() {
	registerDMCO()
	registerTMCO()
	registerSALBLIQ()
}

// dmco carries one row per accounting movement line.
var dmco = extract{
	name:   "DMCO",
	label:  "Movement detail",
	prefix: "bgcwdh01-dmco-",
	fields: []record{
		date("dt-estraz"),
		text("operaz", 1),
		text("societa", 2),
		packed("numreg", 12, 0),
		binary("progr", 4),
		text("kconto", 16),
		packed("impds", 13, 2),
		text("segno", 1),
		date("dtval"),
		text("kesterno", 16),
		text("liq", 1),
		text("kdiv", 3),
		packed("cmb", 6, 7),
		packed("impdiv", 13, 2),
		filler("bgcwdh01-dmco-filler", 108),
	},
	naturalKey: []string{"societa", "numreg", "progr"},
	splitBy:    []string{"dt-estraz"},
}

// tmco carries one row per accounting movement header.
var tmco = extract{
	name:   "TMCO",
	label:  "Movement header",
	prefix: "bgcwdh01-tmco-",
	fields: []record{
		date("dt-estraz"),
		text("operaz", 1),
		text("societa", 2),
		packed("numreg", 12, 0),
		text("kcaup", 3),
		date("dtreg"),
		text("dtreg-iv", 1),
		date("dtop"),
		text("dtop-iv", 1),
		date("dtcont"),
		text("dtcont-iv", 1),
		text("fonte", 3),
		packed("numsmit2", 12, 0),
		text("f02", 1),
		text("stato", 1),
		date("dtstorno"),
		text("dtstorno-iv", 1),
		packed("numstorno", 12, 0),
	},
	naturalKey: []string{"societa", "numreg"},
	splitBy:    []string{"dt-estraz"},
}

// salbliq carries liquidity balances per dossier and currency.
var salbliq = extract{
	name:   "SALBLIQ",
	label:  "Liquidity balances",
	prefix: "bgcwdh01-saldliq-",
	fields: []record{
		date("dt-estraz"),
		text("societa", 2),
		text("dossier", 16),
		text("divisa", 3),
		date("dtrifer"),
		text("tiposaldo", 1),
		packed("cmbpronti", 6, 7),
		packed("ctvldiv", 15, 2),
		packed("ctvleur", 15, 2),
		packed("dareg-eff", 13, 5),
		packed("dareg", 13, 5),
		packed("liquidita", 15, 2),
		filler("filler", 104),
	},
	naturalKey: []string{"societa", "dossier", "divisa", "dtrifer", "tiposaldo"},
	splitBy:    []string{"dt-estraz"},
}

func registerDMCO() {
	core.Register(dmco.category())
}

func registerTMCO() {
	core.Register(tmco.category())
}

func registerSALBLIQ() {
	core.Register(salbliq.category())
}
