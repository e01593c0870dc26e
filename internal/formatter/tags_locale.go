package formatter

// localeTagRules holds section vocabularies checked before the English ones.
var localeTagRules = map[Lang][]tagRule{
	LangRU: {
		rule(`вступление|интро`, TagIntro),
		rule(`куплет`, TagVerse),
		rule(`пред-?припев|пре-?припев`, TagPreChorus),
		rule(`припев`, TagChorus),
		rule(`переход|бридж`, TagBridge),
		rule(`хук|рефрен`, TagHook),
		rule(`кода|аутро|концовка`, TagOutro),
		rule(`проигрыш|соло|инструментал`, TagInstrumental),
	},
	LangES: {
		rule(`introducci[oó]n|intro`, TagIntro),
		rule(`verso|estrofa`, TagVerse),
		rule(`pre-?coro|pre-?estribillo`, TagPreChorus),
		rule(`coro|estribillo`, TagChorus),
		rule(`puente`, TagBridge),
		rule(`gancho`, TagHook),
		rule(`final|cierre`, TagOutro),
		rule(`instrumental|solo`, TagInstrumental),
	},
	LangPT: {
		rule(`introdu[cç][aã]o|intro`, TagIntro),
		rule(`verso|estrofe`, TagVerse),
		rule(`pr[eé]-?refr[aã]o`, TagPreChorus),
		rule(`refr[aã]o|coro`, TagChorus),
		rule(`ponte`, TagBridge),
		rule(`gancho`, TagHook),
		rule(`final|encerramento`, TagOutro),
		rule(`instrumental|solo`, TagInstrumental),
	},
	LangFR: {
		rule(`introduction|intro`, TagIntro),
		rule(`couplet`, TagVerse),
		rule(`pr[eé]-?refrain`, TagPreChorus),
		rule(`refrain`, TagChorus),
		rule(`pont`, TagBridge),
		rule(`final|fin`, TagOutro),
		rule(`instrumental|solo`, TagInstrumental),
	},
	LangIT: {
		rule(`introduzione|intro`, TagIntro),
		rule(`strofa`, TagVerse),
		rule(`pre-?ritornello`, TagPreChorus),
		rule(`ritornello`, TagChorus),
		rule(`ponte`, TagBridge),
		rule(`finale|chiusura`, TagOutro),
		rule(`strumentale|assolo`, TagInstrumental),
	},
	LangEL: {
		rule(`εισαγωγή|εισαγωγη|ιντρο`, TagIntro),
		rule(`κουπλέ|κουπλε|στροφή|στροφη`, TagVerse),
		rule(`προ-?ρεφρέν|προ-?ρεφρεν`, TagPreChorus),
		rule(`ρεφρέν|ρεφρεν`, TagChorus),
		rule(`γέφυρα|γεφυρα`, TagBridge),
		rule(`φινάλε|φιναλε|κλείσιμο`, TagOutro),
		rule(`ορχηστρικό|ορχηστρικο|σόλο|σολο`, TagInstrumental),
	},
}
