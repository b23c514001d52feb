// Package qrcode renders PNG QR codes with medium error correction, either as
// raw bytes or as a base64 data URI for embedding in HTML.
//
//	png, err := qrcode.Generate("https://truths.example.com/truth/t-17", 256)
//
//	src, err := qrcode.GenerateBase64Image(link, 0) // DefaultSize
//	// <img src="{src}" alt="QR code">
//
// Medium correction recovers from roughly 15% damage, which is enough for
// screens and ordinary prints. Sizes above MaxSize are rejected.
package qrcode
