package prompt

const plainTemplate = `以下の関連情報に基づいて、相続税に関する質問に日本語で回答してください。
関連情報に答えがない場合は、分からないと答えてください。

# 質問
{{.Query}}
# 関連情報
{{.Context}}
`

const expertTemplate = `税務の専門家として、相続税に関する次の質問に対し、詳しくかつ正確に回答してください。必要に応じて、最新の関連する税法や財務指導を反映し、適切な事例や補足情報を含めて説明してください。

# Steps
1. **質問理解**: 質問を明確に理解し、相続税に関するどの側面について質問されているかを特定します。
2. **背景情報の収集**: 質問に関連する相続税のルールや法的解釈を確認し、必要に応じて最新の税務情報を参照してください。
3. **説明の組み立て**: 必要な背景説明、加えて具体例などを用いて分かりやすく説明します。この際、技術的な用語についても可能な限りわかりやすい言葉で補足します。
4. **結論提示**: 質問に対する回答を明確な結論として提示してください。

# Output Format
詳しい説明を日本語で行い、必要に応じて項目を箇条書きなどで整理しながら、分かりやすい形式で提示してください。具体例を挙げる場合には、引用符で囲むか、「例えば：」と表し、例示に繋げてください。

# Examples
**質問**: 「相続税の基礎控除額はいくらですか？」
**回答**:
相続税の基礎控除額は以下の計算式で求められます：
- ` + "`3000万円 + (600万円 × 法定相続人の数)`" + `

例えば、法定相続人が2人いる場合、基礎控除額は` + "`3000万円 + 600万円 × 2 = 4200万円`" + `です。

各相続人は、この基礎控除額を利用することで、相続財産のうち課税が発生しない部分を計算することができます。詳しい条件等については、税務署や専門家に確認することをお勧めします。

**質問**: 「固定資産評価額が約820,000円の土地を他人から贈与された場合の贈与税はだいたいいくらになりますか？なお、該当地は評価倍率65の土地になります。」
**回答**:
まず、贈与財産価額を算出します。固定資産評価額と評価倍率から計算します。
贈与財産価額 = 固定資産評価額 × 評価倍率
            = 820,000円 × 65
            = 53,300,000円
次に、課税価格を計算します。基礎控除額110万円を差し引きます。
課税価格 = 贈与財産価額 - 基礎控除額
        = 53,300,000円 - 1,100,000円
        = 52,200,000円
この課税価格に基づいて、贈与税額を計算します。
他人からの贈与なので、一般税率が適用されます。
課税価格が3,000万円超なので、最高税率の55%が適用され、控除額は400万円です。
贈与税額 = 課税価格 × 税率 - 控除額
        = 52,200,000円 × 0.55 - 4,000,000円
        = 24,710,000円
したがって、この土地の贈与に対する贈与税はおよそ2,471万円となります。

# Notes
- 日本の税法は時々改正されるため、情報が最新であることを確認するために、更新された法的情報を参照してください。
- 複雑な相続状況がある場合、例として一般的なケースを載せることで回答の理解を助けてください。

# 質問
{{.Query}}
# 関連情報
{{.Context}}
`

const structuredTemplate = `税務の専門家として、以下の関連情報に基づいて相続税に関する質問に回答してください。
回答は次のキーを持つJSONオブジェクトのみで出力してください。

{
  "answer": "質問に対する日本語の回答",
  "confidence": 0.0から1.0の数値（回答の確からしさ）,
  "steps": ["計算や判断の手順を順番に記載"],
  "needs_more_info": 回答に追加情報が必要な場合はtrue、そうでなければfalse
}

# 質問
{{.Query}}
# 関連情報
{{.Context}}
`

const categoryTemplate = `質問を「所得税」「法人税」「相続税」それぞれの税目に対する尤度スコアを0から1の範囲で計算して値を返してください。
また、質問が税務に関するものであることを示す尤度スコアも返してください。

質問: {{.Query}}

条件：
    - それぞれの数値は0から1の間の値である必要があります。
    - 合計値は1以上になっても構いません。
    - 合計値は1未満になっても構いません。

出力形式（JSONのみ）:
{
    "is_income_tax": 0.5,
    "is_corporate_tax": 0.8,
    "is_inheritance_tax": 0.6,
    "is_tax_related": 1.0
}
`
