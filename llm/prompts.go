package llm

// Prompt templates for Gemini structure analysis. Each template demands a
// bare JSON object; the response decoder still runs repair before
// unmarshalling because models wrap output in markdown fences anyway.

const analyzeTBPrompt = `Analyze this Trial Balance Excel sheet data and identify its structure.

SHEET DATA (CSV format with row numbers):
%s

Instructions:
Find the following:
1. Header row - the row containing column headers like "Account", "Debit", "Credit"
2. Account column - which column contains account codes or names
3. Account name column - which column contains account descriptions (if separate from codes)
4. Debit column - which column contains debit amounts
5. Credit column - which column contains credit amounts
6. Data start row - first row of actual account data (usually header row + 1)

This may be from various accounting software (QuickBooks, Sage, Xero, NetSuite, etc.) so column names may vary:
- Account names: "Account", "Account Name", "Description", "Acct", "Account Code", "GL Account"
- Debit: "Debit", "Dr", "Debits", "Debit Amount"
- Credit: "Credit", "Cr", "Credits", "Credit Amount"

Respond with ONLY a JSON object (no markdown, no explanation):
{
    "header_row": row_number,
    "account_col": column_number_or_null,
    "account_name_col": column_number,
    "debit_col": column_number,
    "credit_col": column_number,
    "data_start_row": row_number,
    "confidence": "high/medium/low"
}`

const analyzeGLPrompt = `Analyze this General Ledger data and find all account sections.

SHEET DATA (CSV format with row numbers):
%s

Instructions:
The ledger is organized as per-account sections: an account name header row
followed by that account's transactions and a summary row ("Net Movement",
"Balance" or similar). For each account section, find:
1. Account name (the header text)
2. Header row number

Respond with ONLY a JSON object (no markdown, no explanation):
{
    "accounts": [
        {
            "name": "Account Name",
            "header_row": row_number
        }
    ],
    "total_accounts_found": number
}`

const matchAccountsPrompt = `Match Trial Balance accounts to General Ledger accounts using semantic understanding.

TRIAL BALANCE ACCOUNTS:
%s

GENERAL LEDGER ACCOUNTS:
%s

Instructions:
Match each TB account to its corresponding GL account. Consider:
1. Exact name matches
2. Similar names with slight variations (abbreviations, spacing)
3. Account codes if present
4. Accounting category context (Assets, Liabilities, Revenue, Expenses)

A match confidence of 0.8 or higher is considered a good match.

Respond with ONLY a JSON object (no markdown, no explanation):
{
    "matches": [
        {
            "tb_row": row_number,
            "tb_account": "TB Account Name",
            "gl_account": "GL Account Name",
            "confidence": 0.0_to_1.0
        }
    ],
    "unmatched_tb": ["list of unmatched TB accounts"]
}`
