package testutil

import "bytes"

// LegacySample is text in a pre-Unicode encoding together with its UTF-8
// form. Older handsets and carrier gateways stored message text this way.
type LegacySample struct {
	Name    string
	Encoded []byte
	UTF8    string
}

var legacySamples = []LegacySample{
	{"windows-1252 smart quote", []byte("Rand\x92s Opponent"), "Rand\u2019s Opponent"},
	{"windows-1252 en dash", []byte("2020 \x96 2024"), "2020 \u2013 2024"},
	{"windows-1252 euro", []byte("Price: \x80100"), "Price: \u20ac100"},
	{"latin-1 o acute", []byte("Mir\xf3 - Picasso"), "Mir\u00f3 - Picasso"},
	{"latin-1 n tilde", []byte("Espa\xf1a"), "Espa\u00f1a"},
	{
		Name:    "shift_jis long",
		Encoded: []byte{
			0x93, 0xfa, 0x96, 0x7b, 0x8c, 0xea, 0x82, 0xcc, 0x83, 0x65, 0x83, 0x4c,
			0x83, 0x58, 0x83, 0x67, 0x83, 0x54, 0x83, 0x93, 0x83, 0x76, 0x83, 0x8b,
			0x82, 0xc5, 0x82, 0xb7, 0x81, 0x42, 0x82, 0xb1, 0x82, 0xea, 0x82, 0xcd,
			0x95, 0xb6, 0x8e, 0x9a, 0x89, 0xbb, 0x82, 0xaf, 0x82, 0xcc, 0x83, 0x65,
			0x83, 0x58, 0x83, 0x67, 0x82, 0xc9, 0x8e, 0x67, 0x97, 0x70, 0x82, 0xb3,
			0x82, 0xea, 0x82, 0xdc, 0x82, 0xb7, 0x81, 0x42,
		},
		UTF8: "日本語のテキストサンプルです。これは文字化けのテストに使用されます。",
	},
	{
		Name:    "gbk long",
		Encoded: []byte{
			0xd5, 0xe2, 0xca, 0xc7, 0xd2, 0xbb, 0xb8, 0xf6, 0xd6, 0xd0, 0xce, 0xc4,
			0xce, 0xc4, 0xb1, 0xbe, 0xca, 0xbe, 0xc0, 0xfd, 0xa3, 0xac, 0xd3, 0xc3,
			0xd3, 0xda, 0xb2, 0xe2, 0xca, 0xd4, 0xd7, 0xd6, 0xb7, 0xfb, 0xb1, 0xe0,
			0xc2, 0xeb, 0xbc, 0xec, 0xb2, 0xe2, 0xb9, 0xa6, 0xc4, 0xdc, 0xa1, 0xa3,
		},
		UTF8: "这是一个中文文本示例，用于测试字符编码检测功能。",
	},
	{
		Name:    "big5 long",
		Encoded: []byte{
			0xb3, 0x6f, 0xac, 0x4f, 0xa4, 0x40, 0xad, 0xd3, 0xc1, 0x63, 0xc5, 0xe9,
			0xa4, 0xa4, 0xa4, 0xe5, 0xbd, 0x64, 0xa8, 0xd2, 0xa1, 0x41, 0xa5, 0xce,
			0xa9, 0xf3, 0xb4, 0xfa, 0xb8, 0xd5, 0xa6, 0x72, 0xa4, 0xb8, 0xbd, 0x73,
			0xbd, 0x58, 0xb0, 0xbb, 0xb4, 0xfa, 0xa1, 0x43,
		},
		UTF8: "這是一個繁體中文範例，用於測試字元編碼偵測。",
	},
	{
		Name:    "euc-kr long",
		Encoded: []byte{
			0xc7, 0xd1, 0xb1, 0xdb, 0x20, 0xc5, 0xd8, 0xbd, 0xba, 0xc6, 0xae, 0x20,
			0xbb, 0xf9, 0xc7, 0xc3, 0xc0, 0xd4, 0xb4, 0xcf, 0xb4, 0xd9, 0x2e, 0x20,
			0xc0, 0xce, 0xc4, 0xda, 0xb5, 0xf9, 0x20, 0xb0, 0xa8, 0xc1, 0xf6, 0x20,
			0xc5, 0xd7, 0xbd, 0xba, 0xc6, 0xae, 0xbf, 0xeb, 0xc0, 0xd4, 0xb4, 0xcf,
			0xb4, 0xd9, 0x2e,
		},
		UTF8: "한글 텍스트 샘플입니다. 인코딩 감지 테스트용입니다.",
	},
}

// LegacySamples returns a fresh copy of the samples, safe for mutation by
// individual tests.
func LegacySamples() []LegacySample {
	out := make([]LegacySample, len(legacySamples))
	for i, s := range legacySamples {
		s.Encoded = bytes.Clone(s.Encoded)
		out[i] = s
	}
	return out
}
