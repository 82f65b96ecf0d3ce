package ledger

// Account codes follow the chart used by invoice posting: 1xxx assets,
// 2xxx liabilities and GST control accounts, 4xxx income, 5xxx expenses.
const (
	AccountBank      = "1000"
	AccountDebtors   = "1100"
	AccountCreditors = "2100"

	AccountIGSTPayable = "2310"
	AccountIGSTInput   = "2311"
	AccountCGSTPayable = "2320"
	AccountCGSTInput   = "2321"
	AccountSGSTPayable = "2330"
	AccountSGSTInput   = "2331"

	AccountIGSTSettlement = "2350"
	AccountGSTSettlement  = "2360"

	AccountSales     = "4100"
	AccountPurchases = "5100"

	AccountSuspense = "9999"
)
