package registry

import (
	"regexp"

	"github.com/orcap/tms/internal/domain"
)

// Default returns the firm's reference data as verified by the December 2025
// reconciliation. Rule order is significant and mirrors the declared order of
// the source tables.
func Default() *Registry {
	return &Registry{
		Advisors:         advisors(),
		ExpenseRules:     expenseRules(),
		RevenueSources:   revenueSourceRules(),
		AdvisorPatterns:  advisorPatterns(),
		ClientPatterns:   clientPatterns(),
		TransferPatterns: transferPatterns(),
		Overrides:        overrideAgreements(),
	}
}

func advisors() []domain.Advisor {
	return []domain.Advisor{
		{
			ID:           "maks-balbaev",
			DisplayName:  "Maks Balbaev",
			Company:      "Alpha Wealth Advisors Ltd",
			Role:         domain.RoleStandard,
			Active:       true,
			BankPatterns: []string{"ALPHA WEALTH", "ALPHA_WEALTH"},
			PaymentName:  "Alpha Wealth Advisors Ltd",
			Clients: []domain.Client{
				{Name: "Alexander & Yana Barkov", AccountRef: "9027772"},
				{Name: "Rozov Iryna & Eugeniy (SW)", AccountRef: "9027793"},
				{Name: "Rozov Iryna & Eugeniy (UK)", AccountRef: "9029006"},
				{Name: "Linnik Vadim", AccountRef: "9027841"},
				{Name: "Gordon Mark", AccountRef: "9029020"},
				{Name: "Smirnova Galina", AccountRef: "9029022"},
				{Name: "Karpova Anna", AccountRef: "9429023"},
			},
		},
		{
			ID:           "nikolai-klimov",
			DisplayName:  "Nikolai Klimov",
			Role:         domain.RoleStandard,
			Active:       true,
			BankPatterns: []string{"NIKOLAI KLIMOV", "N KLIMOV"},
			PaymentName:  "Nikolai Klimov",
			Clients: []domain.Client{
				{Name: "Kelgankina Yulia", AccountRef: "9027842"},
				{Name: "Rubinchik Igor", AccountRef: "9027873"},
				{Name: "Tsalov R & Svedtsikova N", AccountRef: "9029000"},
				{Name: "Dobrikova Svetlana", AccountRef: "9029004"},
				{Name: "Obuschak Artem", AccountRef: "9029024"},
				{Name: "Zavileyskiy Mikhail", AccountRef: "IB", Notes: "Interactive Brokers"},
			},
		},
		{
			ID:           "sergey-zhirnov",
			DisplayName:  "Sergey Zhirnov",
			Role:         domain.RoleStandard,
			Active:       true,
			BankPatterns: []string{"SERGEY ZHIRNOV", "S ZHIRNOV"},
			PaymentName:  "Sergey Zhirnov",
			Clients: []domain.Client{
				{Name: "Latsanych Vasily", AccountRef: "9027880"},
				{Name: "Makarenko Viacheslav", AccountRef: "9029003"},
				{Name: "Biszko Roman Waclaw", AccountRef: "9029012"},
			},
		},
		{
			ID:           "mariia-filatenko",
			DisplayName:  "Mariia Filatenko",
			Role:         domain.RoleStandard,
			Active:       true,
			BankPatterns: []string{"MARIIA FILATENKO", "M FILATENKO", "MARIA FILATENKO"},
			PaymentName:  "Mariia Filatenko",
			Clients: []domain.Client{
				{Name: "Telepneva Natalia (UK)", AccountRef: "9029009"},
				{Name: "Telepneva Natalia (SW)", AccountRef: "9027919"},
				{Name: "Beliakova Irina", AccountRef: "9029010"},
			},
		},
		{
			ID:           "yulia-mitraeva",
			DisplayName:  "Yulia Mitraeva",
			Company:      "Sailaway Finance Ltd",
			Role:         domain.RoleStandard,
			Active:       true,
			BankPatterns: []string{"SAILAWAY", "YULIA MITRAEVA"},
			PaymentName:  "Sailaway Finance Ltd",
			Clients: []domain.Client{
				{Name: "Demarina Liudmila", AccountRef: "TBC"},
				{Name: "Markova Natalia", AccountRef: "TBC"},
				{Name: "Solovyeva Elena", AccountRef: "consultancy", Notes: "Hourly consulting"},
				{Name: "Tuvykin Konstantin", AccountRef: "TBC"},
				{Name: "Shabalina Anna", AccountRef: "TBC"},
				{Name: "Savushkin Roman", AccountRef: "FP", Notes: "Fieldpoint"},
			},
		},
		{
			ID:           "regent-consulting",
			DisplayName:  "Regent Consulting Ltd",
			Company:      "Regent Consulting Ltd",
			Role:         domain.RoleOverrideOnly,
			Active:       true,
			BankPatterns: []string{"REGENT CONSULTING"},
			PaymentName:  "Regent Consulting Ltd",
			Clients: []domain.Client{
				{Name: "Anisimov Alexey & Elena", AccountRef: "9029019", SharedWith: "mariia-filatenko", Notes: "Joint client with Mariia"},
				{Name: "Gorn Tatyana & Vitaly", AccountRef: "Vontobel", Notes: "Vontobel bank"},
			},
		},
	}
}

func expenseRules() []ExpenseRule {
	return []ExpenseRule{
		// Shared operational expenses. 8X8 is the one pool the owners
		// participate in, so its denominator includes them.
		{Pattern: pattern(`HTL SUPPORT`), Category: domain.CategoryShared, ExpenseType: "HTL"},
		{Pattern: pattern(`8X8 UK`), Category: domain.CategoryShared, ExpenseType: "8X8", IncludeOwners: true},
		{Pattern: pattern(`SALESFORCE`), Category: domain.CategoryShared, ExpenseType: "SALESFORCE"},
		{Pattern: pattern(`WORLDCHECK|WORLD CHECK`), Category: domain.CategoryShared, ExpenseType: "WORLDCHECK"},

		// Individual expenses.
		{Pattern: pattern(`BUPA`), Category: domain.CategoryIndividual, ExpenseType: "BUPA"},
		{Pattern: pattern(`AXA PPP`), Category: domain.CategoryIndividual, ExpenseType: "AXA", AdvisorID: "mariia-filatenko"},

		// Firm-only, absorbed by the firm.
		{Pattern: pattern(`NETLIFY`), Category: domain.CategoryFirmOnly, ExpenseType: "HOSTING"},
		{Pattern: pattern(`Google GSUITE|GSUITE`), Category: domain.CategoryFirmOnly, ExpenseType: "GOOGLE"},

		// Excluded from all totals.
		{Pattern: pattern(`REFINITIV`), Category: domain.CategoryExcluded, ExpenseType: "DATA"},
	}
}

func revenueSourceRules() []RevenueSourceRule {
	return []RevenueSourceRule{
		{Pattern: pattern(`CBH WEALTH UK|CBH COMPAGNIE BANCAIRE`), Source: "CBH", Type: SourcePartnerBank, Currencies: []string{"GBP", "CHF"}},
		{Pattern: pattern(`TBC BANK|'TBC BANK' JSC`), Source: "TBC", Type: SourcePartnerBank, Currencies: []string{"GBP"}},
		{Pattern: pattern(`MAREX FINANCIAL`), Source: "MAREX", Type: SourcePartnerBank, Currencies: []string{"USD"}},
		{Pattern: pattern(`FIELDPOINT PRIVATE`), Source: "FIELDPOINT", Type: SourcePartnerBank, Currencies: []string{"GBP", "USD"}},
		{Pattern: pattern(`VONTOBEL`), Source: "VONTOBEL", Type: SourcePartnerBank, Currencies: []string{"CHF", "EUR"}},
		{Pattern: pattern(`STRIPE PAYMENTS`), Source: "STRIPE", Type: SourcePaymentProcessor, Currencies: []string{"GBP"}},
	}
}

func advisorPatterns() []AdvisorPattern {
	return []AdvisorPattern{
		{Pattern: pattern(`ALPHA WEALTH`), AdvisorID: "maks-balbaev"},
		{Pattern: pattern(`REGENT CONSULTING`), AdvisorID: domain.OperationsOverrideID},
		{Pattern: pattern(`NIKOLAI KLIMOV`), AdvisorID: "nikolai-klimov"},
		{Pattern: pattern(`SERGEY ZHIRNOV`), AdvisorID: "sergey-zhirnov"},
		{Pattern: pattern(`MARIIA FILATENKO|MARIA FILATENKO`), AdvisorID: "mariia-filatenko"},
		{Pattern: pattern(`SAILAWAY`), AdvisorID: "yulia-mitraeva"},
	}
}

func clientPatterns() []ClientPattern {
	return []ClientPattern{
		// Maks
		{Pattern: pattern(`BARKOV`), ClientName: "Barkov", AdvisorID: "maks-balbaev"},
		{Pattern: pattern(`ROZOV`), ClientName: "Rozov", AdvisorID: "maks-balbaev"},
		{Pattern: pattern(`LINNIK`), ClientName: "Linnik", AdvisorID: "maks-balbaev"},
		{Pattern: pattern(`GORDON MARK`), ClientName: "Gordon Mark", AdvisorID: "maks-balbaev"},
		{Pattern: pattern(`SMIRNOVA`), ClientName: "Smirnova", AdvisorID: "maks-balbaev"},
		{Pattern: pattern(`KARPOVA`), ClientName: "Karpova", AdvisorID: "maks-balbaev"},
		// Nikolai
		{Pattern: pattern(`KELGANKINA`), ClientName: "Kelgankina", AdvisorID: "nikolai-klimov"},
		{Pattern: pattern(`RUBINCHIK`), ClientName: "Rubinchik", AdvisorID: "nikolai-klimov"},
		{Pattern: pattern(`TSALOV|SVEDTSIKOVA`), ClientName: "Tsalov/Svedtsikova", AdvisorID: "nikolai-klimov"},
		{Pattern: pattern(`DOBRIKOVA`), ClientName: "Dobrikova", AdvisorID: "nikolai-klimov"},
		{Pattern: pattern(`OBUSCHAK`), ClientName: "Obuschak", AdvisorID: "nikolai-klimov"},
		{Pattern: pattern(`ZAVILEYSKIY`), ClientName: "Zavileyskiy", AdvisorID: "nikolai-klimov"},
		// Sergey
		{Pattern: pattern(`LATSANYCH`), ClientName: "Latsanych", AdvisorID: "sergey-zhirnov"},
		{Pattern: pattern(`MAKARENKO`), ClientName: "Makarenko", AdvisorID: "sergey-zhirnov"},
		{Pattern: pattern(`BISZKO`), ClientName: "Biszko", AdvisorID: "sergey-zhirnov"},
		// Mariia
		{Pattern: pattern(`TELEPNEVA`), ClientName: "Telepneva", AdvisorID: "mariia-filatenko"},
		{Pattern: pattern(`BELIAKOVA`), ClientName: "Beliakova", AdvisorID: "mariia-filatenko"},
		{Pattern: pattern(`SHNEIDEROV`), ClientName: "Shneiderov", AdvisorID: "mariia-filatenko"},
		// Yulia
		{Pattern: pattern(`DEMARINA`), ClientName: "Demarina", AdvisorID: "yulia-mitraeva"},
		{Pattern: pattern(`MARKOVA`), ClientName: "Markova", AdvisorID: "yulia-mitraeva"},
		{Pattern: pattern(`SOLOVYEVA`), ClientName: "Solovyeva", AdvisorID: "yulia-mitraeva"},
		{Pattern: pattern(`TUVYKIN`), ClientName: "Tuvykin", AdvisorID: "yulia-mitraeva"},
		{Pattern: pattern(`SHABALINA`), ClientName: "Shabalina", AdvisorID: "yulia-mitraeva"},
		{Pattern: pattern(`SAVUSHKIN`), ClientName: "Savushkin", AdvisorID: "yulia-mitraeva"},
		// Inherited (ex-Anastasia) clients
		{Pattern: pattern(`ANISIMOV`), ClientName: "Anisimov", AdvisorID: "regent-consulting"},
		{Pattern: pattern(`GORN`), ClientName: "Gorn", AdvisorID: "regent-consulting"},
		// Direct client payments via Wise
		{Pattern: pattern(`IRINA.*ROZOVA|ROZOVA.*IRINA`), ClientName: "Rozova (Irina)", AdvisorID: "maks-balbaev"},
		{Pattern: pattern(`RUSS HOLLAND`), ClientName: "Holland", AdvisorID: "maks-balbaev"},
	}
}

func transferPatterns() []*regexp.Regexp {
	return []*regexp.Regexp{
		pattern(`ORION RIDGE CAPITA`), // internal Lloyds <-> Wise movements
		pattern(`WISE`),
		pattern(`TW\d+`), // Wise transfer references
	}
}

func overrideAgreements() []OverrideAgreement {
	return []OverrideAgreement{
		// Savushkin's Fieldpoint fee is split 50/50 with Regent; the override
		// is owed on the full fee while only the firm's half is booked.
		{
			RecipientID:        "regent-consulting",
			ClientPattern:      pattern(`SAVUSHKIN`),
			ServicingAdvisorID: "yulia-mitraeva",
			FeeShare:           domain.Money("0.5"),
		},
	}
}
