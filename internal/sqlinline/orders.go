package sqlinline

const QInsertOrder = `--sql 7938b8a9-e828-4656-a71f-34f8a22203e4
insert into pending_orders (image_url, prompt, user_id, status)
values ($1, $2, $3, $4)
returning id, image_url, prompt, user_id, created_at, status;
`

const QListOrders = `--sql 09f17cca-36c7-46c2-96af-a26b66ab27d9
select id, image_url, prompt, user_id, created_at, status
from pending_orders
order by created_at desc, id desc;
`

const QUpdateOrderStatus = `--sql 6748f250-f222-4be2-8711-7b08a566cfdb
update pending_orders
set status = $2
where id = $1
returning id, image_url, prompt, user_id, created_at, status;
`
