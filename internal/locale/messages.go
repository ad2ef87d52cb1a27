package locale

import "gofresh/internal/model"

type statusText struct {
	title   string
	message string
}

var statusCatalog = map[string]map[model.OrderStatus]statusText{
	Korean: {
		model.OrderStatusPending:        {"주문 접수", "주문이 접수되었습니다."},
		model.OrderStatusConfirmed:      {"결제 완료", "결제가 완료되었습니다."},
		model.OrderStatusProcessing:     {"상품 준비중", "판매자가 상품을 준비하고 있습니다."},
		model.OrderStatusShipped:        {"배송 시작", "상품이 출고되었습니다."},
		model.OrderStatusOutForDelivery: {"배송중", "배송기사님이 상품을 배송하고 있습니다."},
		model.OrderStatusDelivered:      {"배송 완료", "상품이 배송 완료되었습니다."},
		model.OrderStatusCancelled:      {"주문 취소", "주문이 취소되었습니다."},
	},
	English: {
		model.OrderStatusPending:        {"Order received", "Your order has been received."},
		model.OrderStatusConfirmed:      {"Payment complete", "Your payment has been confirmed."},
		model.OrderStatusProcessing:     {"Preparing", "The seller is preparing your items."},
		model.OrderStatusShipped:        {"Shipped", "Your items have left the warehouse."},
		model.OrderStatusOutForDelivery: {"Out for delivery", "Your items are on the way."},
		model.OrderStatusDelivered:      {"Delivered", "Your items have been delivered."},
		model.OrderStatusCancelled:      {"Cancelled", "Your order has been cancelled."},
	},
	Chinese: {
		model.OrderStatusPending:        {"订单已接收", "您的订单已接收。"},
		model.OrderStatusConfirmed:      {"付款完成", "您的付款已确认。"},
		model.OrderStatusProcessing:     {"备货中", "卖家正在准备您的商品。"},
		model.OrderStatusShipped:        {"已发货", "您的商品已出库。"},
		model.OrderStatusOutForDelivery: {"派送中", "您的商品正在派送中。"},
		model.OrderStatusDelivered:      {"已送达", "您的商品已送达。"},
		model.OrderStatusCancelled:      {"订单已取消", "您的订单已取消。"},
	},
	Japanese: {
		model.OrderStatusPending:        {"注文受付", "ご注文を受け付けました。"},
		model.OrderStatusConfirmed:      {"決済完了", "お支払いが完了しました。"},
		model.OrderStatusProcessing:     {"商品準備中", "販売者が商品を準備しています。"},
		model.OrderStatusShipped:        {"発送済み", "商品が出荷されました。"},
		model.OrderStatusOutForDelivery: {"配達中", "商品を配達しています。"},
		model.OrderStatusDelivered:      {"配達完了", "商品の配達が完了しました。"},
		model.OrderStatusCancelled:      {"注文キャンセル", "ご注文がキャンセルされました。"},
	},
}

func lookup(lang string, status model.OrderStatus) statusText {
	if texts, ok := statusCatalog[lang]; ok {
		if text, ok := texts[status]; ok {
			return text
		}
	}
	if text, ok := statusCatalog[Default][status]; ok {
		return text
	}
	return statusText{title: string(status), message: string(status)}
}

// StatusTitle returns the short label for status in lang, falling back to Korean.
func StatusTitle(lang string, status model.OrderStatus) string {
	return lookup(lang, status).title
}

// StatusMessage returns the history message for status in lang, falling back to Korean.
func StatusMessage(lang string, status model.OrderStatus) string {
	return lookup(lang, status).message
}
